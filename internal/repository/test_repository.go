package repository

import (
	"context"

	"github.com/lshigami/ieltsprep/internal/apperror"
	"github.com/lshigami/ieltsprep/internal/model"
	"gorm.io/gorm"
)

// TestSummaryRow is a test with the number of parts and questions it holds.
type TestSummaryRow struct {
	model.Test
	PartCount     int
	QuestionCount int
}

// TestRepository is the read side of the test catalog plus content creation.
type TestRepository interface {
	WithTx(tx *gorm.DB) TestRepository
	Create(ctx context.Context, test *model.Test) error
	FindByIDWithParts(ctx context.Context, id uint) (*model.Test, error)
	FindAllWithCounts(ctx context.Context) ([]TestSummaryRow, error)
	FindTitles(ctx context.Context, ids []uint) (map[uint]string, error)
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) WithTx(tx *gorm.DB) TestRepository {
	return &testRepository{db: tx}
}

func (r *testRepository) Create(ctx context.Context, test *model.Test) error {
	// GORM creates the nested parts and questions in the same statement batch.
	return apperror.FromDB(r.db.WithContext(ctx).Create(test).Error, "create test")
}

func (r *testRepository) FindByIDWithParts(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.WithContext(ctx).
		Preload("Parts", func(db *gorm.DB) *gorm.DB {
			return db.Order("parts.part_number ASC")
		}).
		Preload("Parts.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.question_number ASC")
		}).
		First(&test, id).Error
	if err != nil {
		return nil, apperror.FromDB(err, "find test")
	}
	return &test, nil
}

func (r *testRepository) FindAllWithCounts(ctx context.Context) ([]TestSummaryRow, error) {
	var results []TestSummaryRow
	err := r.db.WithContext(ctx).Model(&model.Test{}).
		Select(`tests.*,
			(SELECT COUNT(*) FROM parts WHERE parts.test_id = tests.id) AS part_count,
			(SELECT COUNT(*) FROM questions JOIN parts ON parts.id = questions.part_id WHERE parts.test_id = tests.id) AS question_count`).
		Where("tests.deleted_at IS NULL").
		Order("tests.created_at DESC").
		Scan(&results).Error
	return results, apperror.FromDB(err, "list tests")
}

func (r *testRepository) FindTitles(ctx context.Context, ids []uint) (map[uint]string, error) {
	titles := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	var tests []model.Test
	if err := r.db.WithContext(ctx).Unscoped().Select("id", "title").Where("id IN ?", ids).Find(&tests).Error; err != nil {
		return nil, apperror.FromDB(err, "find test titles")
	}
	for _, t := range tests {
		titles[t.ID] = t.Title
	}
	return titles, nil
}

package repository

import (
	"context"

	"github.com/lshigami/ieltsprep/internal/apperror"
	"github.com/lshigami/ieltsprep/internal/model"
	"gorm.io/gorm"
)

// SubmissionFilter narrows ListAll. Zero values mean no filtering.
type SubmissionFilter struct {
	Status      model.SubmissionStatus
	TestID      uint
	UserID      uint
	TestType    model.TestType
	OldestFirst bool
	Limit       int
	Offset      int
}

type SubmissionRepository interface {
	WithTx(tx *gorm.DB) SubmissionRepository
	Create(ctx context.Context, submission *model.Submission) error
	FindByID(ctx context.Context, id uint) (*model.Submission, error)
	FindByUser(ctx context.Context, userID uint) ([]model.Submission, error)
	FindAll(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error)
	// UpdateGrade persists the graded fields of submission only if the stored
	// version still equals expectedVersion.
	UpdateGrade(ctx context.Context, submission *model.Submission, expectedVersion uint) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) WithTx(tx *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: tx}
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	if submission.Version == 0 {
		submission.Version = 1
	}
	return apperror.FromDB(r.db.WithContext(ctx).Create(submission).Error, "create submission")
}

func (r *submissionRepository) FindByID(ctx context.Context, id uint) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, apperror.FromDB(err, "find submission")
	}
	return &submission, nil
}

func (r *submissionRepository) FindByUser(ctx context.Context, userID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&submissions).Error
	return submissions, apperror.FromDB(err, "list user submissions")
}

func (r *submissionRepository) FindAll(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error) {
	query := r.db.WithContext(ctx).Model(&model.Submission{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TestID != 0 {
		query = query.Where("test_id = ?", filter.TestID)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.TestType != "" {
		query = query.Where("test_type = ?", filter.TestType)
	}
	if filter.OldestFirst {
		query = query.Order("created_at ASC").Order("id ASC")
	} else {
		query = query.Order("created_at DESC").Order("id DESC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var submissions []model.Submission
	err := query.Find(&submissions).Error
	return submissions, apperror.FromDB(err, "list submissions")
}

func (r *submissionRepository) UpdateGrade(ctx context.Context, submission *model.Submission, expectedVersion uint) error {
	submission.Version = expectedVersion + 1
	res := r.db.WithContext(ctx).
		Model(submission).
		Where("version = ?", expectedVersion).
		Select("PartResults", "TotalScore", "Status", "Comments", "Feedback", "GradedBy", "GradedAt", "Version", "UpdatedAt").
		Updates(submission)
	if res.Error != nil {
		submission.Version = expectedVersion
		return apperror.FromDB(res.Error, "update submission grade")
	}
	if res.RowsAffected == 0 {
		submission.Version = expectedVersion
		return apperror.Conflict("submission %d was modified concurrently (expected version %d)", submission.ID, expectedVersion)
	}
	return nil
}

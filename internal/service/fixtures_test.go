package service

import (
	"context"
	"testing"

	"github.com/lshigami/ieltsprep/database"
	"github.com/lshigami/ieltsprep/internal/auth"
	"github.com/lshigami/ieltsprep/internal/grading"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/repository"
	"gorm.io/gorm"
)

var (
	student = auth.Principal{UserID: 7, Role: model.RoleStudent}
	other   = auth.Principal{UserID: 8, Role: model.RoleStudent}
	admin   = auth.Principal{UserID: 1, Role: model.RoleAdmin}
)

func ptr[T any](v T) *T { return &v }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db          *gorm.DB
	tests       repository.TestRepository
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	svc         SubmissionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:          db,
		tests:       repository.NewTestRepository(db),
		submissions: repository.NewSubmissionRepository(db),
		users:       repository.NewUserRepository(db),
	}
	f.svc = NewSubmissionService(f.tests, f.submissions, grading.NewEngine(grading.Options{}), NewScoreConverterService(), db)
	return f
}

func (f *fixture) createTest(t *testing.T, test *model.Test) *model.Test {
	t.Helper()
	if err := f.tests.Create(context.Background(), test); err != nil {
		t.Fatalf("create test %q: %v", test.Title, err)
	}
	return test
}

func tfng(number int, answer string) model.Question {
	return model.Question{
		QuestionNumber: number,
		QuestionType:   model.QuestionTrueFalseNotGiven,
		Options:        []string{"True", "False", "Not Given"},
		CorrectAnswer:  ptr(answer),
	}
}

// readingTest has two objective parts worth 2 marks each.
func readingTest() *model.Test {
	return &model.Test{Title: "Reading Practice 1", Type: model.TestTypeReading, Parts: []model.Part{
		{PartNumber: 1, Title: "Passage 1", Questions: []model.Question{tfng(1, "True"), tfng(2, "False")}},
		{PartNumber: 2, Title: "Passage 2", Questions: []model.Question{tfng(1, "Not Given"), tfng(2, "True")}},
	}}
}

// writingTest has Task 1 (10 marks) and Task 2 (25 marks).
func writingTest() *model.Test {
	return &model.Test{Title: "Writing Practice 1", Type: model.TestTypeWriting, Parts: []model.Part{
		{PartNumber: 1, Title: "Task 1", Questions: []model.Question{
			{QuestionNumber: 1, QuestionType: model.QuestionWritingPrompt, Prompt: "Summarise the chart.", Marks: ptr(10.0)},
		}},
		{PartNumber: 2, Title: "Task 2", Questions: []model.Question{
			{QuestionNumber: 1, QuestionType: model.QuestionWritingPrompt, Prompt: "Discuss both views.", Marks: ptr(25.0)},
		}},
	}}
}

func marked(q model.Question, marks float64) model.Question {
	q.Marks = &marks
	return q
}

// mixedTest has an objective part worth 10 and a subjective part worth 10.
func mixedTest() *model.Test {
	return &model.Test{Title: "Full Practice 1", Type: model.TestTypeFull, Parts: []model.Part{
		{PartNumber: 1, Title: "Listening", Questions: []model.Question{marked(tfng(1, "True"), 8), marked(tfng(2, "False"), 2)}},
		{PartNumber: 2, Title: "Speaking", Questions: []model.Question{
			{QuestionNumber: 1, QuestionType: model.QuestionSpeakingPrompt, Prompt: "Describe your hometown.", Marks: ptr(10.0)},
		}},
	}}
}

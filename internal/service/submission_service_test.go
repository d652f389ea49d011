package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/lshigami/ieltsprep/internal/apperror"
	"github.com/lshigami/ieltsprep/internal/auth"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/model"
)

// assertStatusConsistent checks that graded holds exactly when every part and
// the total are scored.
func assertStatusConsistent(t *testing.T, sub *model.Submission) {
	t.Helper()
	allScored := true
	for _, pr := range sub.PartResults {
		if pr.Score == nil {
			allScored = false
		}
	}
	graded := sub.Status == model.SubmissionGraded
	if graded != (allScored && sub.TotalScore != nil) {
		t.Errorf("submission %d: status %s with totalScore %v and allScored=%v", sub.ID, sub.Status, sub.TotalScore, allScored)
	}
}

func (f *fixture) stored(t *testing.T, id uint) *model.Submission {
	t.Helper()
	sub, err := f.submissions.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload submission %d: %v", id, err)
	}
	assertStatusConsistent(t, sub)
	return sub
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&model.Submission{}).Count(&n).Error; err != nil {
		t.Fatalf("count submissions: %v", err)
	}
	return n
}

func TestSubmit_ObjectiveTestIsGraded(t *testing.T) {
	f := newFixture(t)
	test := f.createTest(t, readingTest())

	got, err := f.svc.Submit(context.Background(), student, test.ID, dto.SubmitTestDTO{Parts: []dto.PartAnswersDTO{
		{PartNumber: 1, Answers: []any{"true", "False"}},
	}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if got.Status != string(model.SubmissionGraded) {
		t.Fatalf("expected graded, got %s", got.Status)
	}
	if got.TotalScore == nil || *got.TotalScore != 2 || got.MaxScore != 4 {
		t.Errorf("expected 2/4, got %v/%v", got.TotalScore, got.MaxScore)
	}
	if got.Percent == nil || *got.Percent != 50 {
		t.Errorf("expected percent 50, got %v", got.Percent)
	}
	if got.Band == nil || *got.Band != 5.5 {
		t.Errorf("expected band 5.5, got %v", got.Band)
	}
	if got.TestTitle != test.Title || got.UserID != student.UserID || got.Version != 1 {
		t.Errorf("unexpected header %+v", got)
	}
	if len(got.PartResults) != 2 || got.PartResults[1].PartNumber != 2 || *got.PartResults[1].Score != 0 {
		t.Errorf("missing part 2 should be graded as unanswered, got %+v", got.PartResults)
	}
	if len(got.PartResults[0].Outcomes) != 2 || !got.PartResults[0].Outcomes[0].Correct {
		t.Errorf("expected per-question outcomes, got %+v", got.PartResults[0].Outcomes)
	}

	f.stored(t, got.ID)
}

func TestSubmit_WritingIsPending(t *testing.T) {
	f := newFixture(t)
	test := f.createTest(t, writingTest())

	got, err := f.svc.Submit(context.Background(), student, test.ID, dto.SubmitTestDTO{Parts: []dto.PartAnswersDTO{
		{PartNumber: 2, Answers: map[string]any{"1": "Some people believe..."}},
	}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.Status != string(model.SubmissionPending) || got.TotalScore != nil || got.Band != nil {
		t.Fatalf("expected pending without total, got %+v", got)
	}
	task2 := got.PartResults[1]
	if task2.Score != nil || task2.MaxScore != 25 || !task2.NeedsManualReview {
		t.Errorf("unexpected task 2 result %+v", task2)
	}
	if task2.Answers[1] != "Some people believe..." {
		t.Errorf("essay not stored for review: %+v", task2.Answers)
	}

	stored := f.stored(t, got.ID)
	if stored.PartResults[1].Answers[1] != "Some people believe..." {
		t.Errorf("essay not persisted: %+v", stored.PartResults[1])
	}
}

func TestSubmit_RepeatedAttemptsAreKept(t *testing.T) {
	f := newFixture(t)
	test := f.createTest(t, readingTest())
	req := dto.SubmitTestDTO{Parts: []dto.PartAnswersDTO{{PartNumber: 1, Answers: []string{"True"}}}}

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Submit(context.Background(), student, test.ID, req); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}
	if n := f.count(t); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
}

func TestSubmit_Rejections(t *testing.T) {
	f := newFixture(t)
	test := f.createTest(t, readingTest())

	tests := []struct {
		name      string
		principal auth.Principal
		testID    uint
		req       dto.SubmitTestDTO
		want      error
	}{
		{"unknown part", student, test.ID, dto.SubmitTestDTO{Parts: []dto.PartAnswersDTO{{PartNumber: 9, Answers: []any{"True"}}}}, apperror.ErrValidation},
		{"duplicate part", student, test.ID, dto.SubmitTestDTO{Parts: []dto.PartAnswersDTO{{PartNumber: 1}, {PartNumber: 1}}}, apperror.ErrValidation},
		{"malformed answers", student, test.ID, dto.SubmitTestDTO{Parts: []dto.PartAnswersDTO{{PartNumber: 1, Answers: "True"}}}, apperror.ErrValidation},
		{"bad question key", student, test.ID, dto.SubmitTestDTO{Parts: []dto.PartAnswersDTO{{PartNumber: 1, Answers: map[string]any{"q1": "True"}}}}, apperror.ErrValidation},
		{"missing test", student, test.ID + 100, dto.SubmitTestDTO{}, apperror.ErrNotFound},
		{"anonymous", auth.Principal{}, test.ID, dto.SubmitTestDTO{}, apperror.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Submit(context.Background(), tt.principal, tt.testID, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if n := f.count(t); n != 0 {
		t.Errorf("rejected submits must not persist anything, found %d", n)
	}
}

func TestGrade_CompletesPendingSubmission(t *testing.T) {
	f := newFixture(t)
	test := f.createTest(t, mixedTest())
	ctx := context.Background()

	sub, err := f.svc.Submit(ctx, student, test.ID, dto.SubmitTestDTO{Parts: []dto.PartAnswersDTO{
		{PartNumber: 1, Answers: map[string]any{"1": "True", "2": "True"}},
		{PartNumber: 2, Answers: []any{"I grew up in a small town..."}},
	}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Status != string(model.SubmissionPending) || *sub.PartResults[0].Score != 8 {
		t.Fatalf("expected pending with listening 8/10, got %+v", sub)
	}

	graded, err := f.svc.Grade(ctx, admin, sub.ID, dto.GradeSubmissionDTO{
		Version:     sub.Version,
		PartResults: []dto.PartScoreDTO{{PartNumber: 2, Score: ptr(7.0), MaxScore: ptr(10.0)}},
		Comments:    "Good fluency",
		Feedback:    map[string]string{"2": "Work on pronunciation of final consonants."},
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if graded.Status != string(model.SubmissionGraded) || graded.TotalScore == nil || *graded.TotalScore != 15 {
		t.Fatalf("expected graded 15, got %v %v", graded.Status, graded.TotalScore)
	}
	if graded.Version != 2 || graded.Comments != "Good fluency" {
		t.Errorf("unexpected version/comments %d %q", graded.Version, graded.Comments)
	}
	if graded.GradedBy == nil || *graded.GradedBy != admin.UserID || graded.GradedAt == nil {
		t.Errorf("grader not recorded: %+v", graded)
	}
	if graded.PartResults[1].Feedback == "" {
		t.Error("part feedback missing from response")
	}

	stored := f.stored(t, sub.ID)
	if stored.Status != model.SubmissionGraded || *stored.TotalScore != 15 || stored.Version != 2 {
		t.Errorf("grade not persisted: %+v", stored)
	}
	if *stored.PartResults[0].Score != 8 {
		t.Errorf("unsupplied part must keep its score, got %v", *stored.PartResults[0].Score)
	}
	if stored.Feedback["2"] != "Work on pronunciation of final consonants." {
		t.Errorf("feedback not persisted: %v", stored.Feedback)
	}
}

func TestGrade_InvalidInputLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	test := f.createTest(t, writingTest())
	ctx := context.Background()

	sub, err := f.svc.Submit(ctx, student, test.ID, dto.SubmitTestDTO{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	both := func(s1, s2 float64) []dto.PartScoreDTO {
		return []dto.PartScoreDTO{{PartNumber: 1, Score: ptr(s1)}, {PartNumber: 2, Score: ptr(s2)}}
	}
	tests := []struct {
		name string
		req  dto.GradeSubmissionDTO
	}{
		{"score above max", dto.GradeSubmissionDTO{Version: 1, PartResults: both(11, 20)}},
		{"negative score", dto.GradeSubmissionDTO{Version: 1, PartResults: both(-1, 20)}},
		{"not a number", dto.GradeSubmissionDTO{Version: 1, PartResults: both(math.NaN(), 20)}},
		{"infinite", dto.GradeSubmissionDTO{Version: 1, PartResults: both(5, math.Inf(1))}},
		{"missing part", dto.GradeSubmissionDTO{Version: 1, PartResults: []dto.PartScoreDTO{{PartNumber: 1, Score: ptr(5.0)}}}},
		{"unknown part", dto.GradeSubmissionDTO{Version: 1, PartResults: append(both(5, 20), dto.PartScoreDTO{PartNumber: 3, Score: ptr(1.0)})}},
		{"duplicate part", dto.GradeSubmissionDTO{Version: 1, PartResults: append(both(5, 20), dto.PartScoreDTO{PartNumber: 2, Score: ptr(1.0)})}},
		{"nil score", dto.GradeSubmissionDTO{Version: 1, PartResults: []dto.PartScoreDTO{{PartNumber: 1, Score: ptr(5.0)}, {PartNumber: 2}}}},
		{"score above supplied max", dto.GradeSubmissionDTO{Version: 1, PartResults: []dto.PartScoreDTO{{PartNumber: 1, Score: ptr(5.0), MaxScore: ptr(4.0)}, {PartNumber: 2, Score: ptr(20.0)}}}},
		{"feedback for unknown part", dto.GradeSubmissionDTO{Version: 1, PartResults: both(5, 20), Feedback: map[string]string{"task2": "ok"}}},
		{"missing version", dto.GradeSubmissionDTO{PartResults: both(5, 20)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Grade(ctx, admin, sub.ID, tt.req)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var ve *apperror.ValidationError
			if !errors.As(err, &ve) || len(ve.Details) == 0 {
				t.Errorf("expected field details, got %v", err)
			}

			stored := f.stored(t, sub.ID)
			if stored.Status != model.SubmissionPending || stored.Version != 1 || stored.TotalScore != nil {
				t.Errorf("failed grade changed the submission: %+v", stored)
			}
		})
	}
}

func TestGrade_StaleVersionConflicts(t *testing.T) {
	f := newFixture(t)
	test := f.createTest(t, writingTest())
	ctx := context.Background()

	sub, err := f.svc.Submit(ctx, student, test.ID, dto.SubmitTestDTO{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	req := dto.GradeSubmissionDTO{Version: 1, PartResults: []dto.PartScoreDTO{
		{PartNumber: 1, Score: ptr(6.0)},
		{PartNumber: 2, Score: ptr(18.0)},
	}}
	if _, err := f.svc.Grade(ctx, admin, sub.ID, req); err != nil {
		t.Fatalf("first Grade: %v", err)
	}

	req.PartResults[1].Score = ptr(12.0)
	if _, err := f.svc.Grade(ctx, admin, sub.ID, req); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict for stale version, got %v", err)
	}
	if stored := f.stored(t, sub.ID); *stored.TotalScore != 24 {
		t.Errorf("stale write must not land, total is %v", *stored.TotalScore)
	}

	// Re-grading with the current version is allowed.
	req.Version = 2
	regraded, err := f.svc.Grade(ctx, admin, sub.ID, req)
	if err != nil {
		t.Fatalf("re-grade: %v", err)
	}
	if *regraded.TotalScore != 18 || regraded.Version != 3 {
		t.Errorf("expected total 18 at version 3, got %v at %d", *regraded.TotalScore, regraded.Version)
	}
}

func TestGrade_AccessControl(t *testing.T) {
	f := newFixture(t)
	test := f.createTest(t, writingTest())
	ctx := context.Background()
	sub, err := f.svc.Submit(ctx, student, test.ID, dto.SubmitTestDTO{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	req := dto.GradeSubmissionDTO{Version: 1, PartResults: []dto.PartScoreDTO{
		{PartNumber: 1, Score: ptr(6.0)}, {PartNumber: 2, Score: ptr(18.0)},
	}}

	if _, err := f.svc.Grade(ctx, student, sub.ID, req); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("owner must not grade, got %v", err)
	}
	if _, err := f.svc.Grade(ctx, admin, sub.ID+100, req); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestGetSubmission_AccessControl(t *testing.T) {
	f := newFixture(t)
	test := f.createTest(t, readingTest())
	ctx := context.Background()
	sub, err := f.svc.Submit(ctx, student, test.ID, dto.SubmitTestDTO{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	tests := []struct {
		name      string
		principal auth.Principal
		id        uint
		want      error
	}{
		{"owner", student, sub.ID, nil},
		{"admin", admin, sub.ID, nil},
		{"other student", other, sub.ID, apperror.ErrForbidden},
		{"anonymous", auth.Principal{}, sub.ID, apperror.ErrUnauthorized},
		{"missing", admin, sub.ID + 1, apperror.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.GetSubmission(ctx, tt.principal, tt.id)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if tt.want == nil && got.ID != sub.ID {
				t.Errorf("expected submission %d, got %d", sub.ID, got.ID)
			}
		})
	}
}

func TestListSubmissionsForUser(t *testing.T) {
	f := newFixture(t)
	test := f.createTest(t, readingTest())
	ctx := context.Background()

	var ids []uint
	for _, p := range []auth.Principal{student, other, student} {
		sub, err := f.svc.Submit(ctx, p, test.ID, dto.SubmitTestDTO{})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		ids = append(ids, sub.ID)
	}

	got, err := f.svc.ListSubmissionsForUser(ctx, student, student.UserID)
	if err != nil {
		t.Fatalf("ListSubmissionsForUser: %v", err)
	}
	if len(got) != 2 || got[0].ID != ids[2] || got[1].ID != ids[0] {
		t.Errorf("expected newest first [%d %d], got %+v", ids[2], ids[0], got)
	}

	if _, err := f.svc.ListSubmissionsForUser(ctx, other, student.UserID); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if got, err := f.svc.ListSubmissionsForUser(ctx, admin, other.UserID); err != nil || len(got) != 1 {
		t.Errorf("admin should see other's single attempt, got %v %v", got, err)
	}
}

func TestListAllSubmissions_FiltersAndQueue(t *testing.T) {
	f := newFixture(t)
	reading := f.createTest(t, readingTest())
	writing := f.createTest(t, writingTest())
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, student, writing.ID, dto.SubmitTestDTO{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.svc.Submit(ctx, other, reading.ID, dto.SubmitTestDTO{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := f.svc.Submit(ctx, other, writing.ID, dto.SubmitTestDTO{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := f.svc.ListAllSubmissions(ctx, student, dto.SubmissionFilterDTO{}); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("students must not list every submission, got %v", err)
	}

	all, err := f.svc.ListAllSubmissions(ctx, admin, dto.SubmissionFilterDTO{})
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 submissions, got %d %v", len(all), err)
	}
	pending, err := f.svc.ListAllSubmissions(ctx, admin, dto.SubmissionFilterDTO{Status: "pending"})
	if err != nil || len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d %v", len(pending), err)
	}
	byUser, err := f.svc.ListAllSubmissions(ctx, admin, dto.SubmissionFilterDTO{UserID: other.UserID, TestType: "Reading"})
	if err != nil || len(byUser) != 1 || byUser[0].TestID != reading.ID {
		t.Fatalf("expected other's reading attempt, got %+v %v", byUser, err)
	}

	queue, err := f.svc.PendingReviewQueue(ctx, admin, 0)
	if err != nil {
		t.Fatalf("PendingReviewQueue: %v", err)
	}
	if len(queue) != 2 || queue[0].ID != first.ID || queue[1].ID != second.ID {
		t.Errorf("expected oldest first [%d %d], got %+v", first.ID, second.ID, queue)
	}
}

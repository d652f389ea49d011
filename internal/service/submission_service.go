package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/ieltsprep/internal/apperror"
	"github.com/lshigami/ieltsprep/internal/auth"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/grading"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const defaultListLimit = 50

// SubmissionService owns the submission lifecycle: pending -> graded.
type SubmissionService interface {
	Submit(ctx context.Context, p auth.Principal, testID uint, req dto.SubmitTestDTO) (*dto.SubmissionDetailDTO, error)
	Grade(ctx context.Context, p auth.Principal, submissionID uint, req dto.GradeSubmissionDTO) (*dto.SubmissionDetailDTO, error)
	GetSubmission(ctx context.Context, p auth.Principal, submissionID uint) (*dto.SubmissionDetailDTO, error)
	ListSubmissionsForUser(ctx context.Context, p auth.Principal, userID uint) ([]dto.SubmissionSummaryDTO, error)
	ListAllSubmissions(ctx context.Context, p auth.Principal, filter dto.SubmissionFilterDTO) ([]dto.SubmissionSummaryDTO, error)
	PendingReviewQueue(ctx context.Context, p auth.Principal, limit int) ([]dto.SubmissionSummaryDTO, error)
}

type submissionService struct {
	testRepo       repository.TestRepository
	submissionRepo repository.SubmissionRepository
	engine         *grading.Engine
	scoreConverter ScoreConverterService
	db             *gorm.DB // Used for the load-test-then-insert transaction
}

func NewSubmissionService(
	testRepo repository.TestRepository,
	submissionRepo repository.SubmissionRepository,
	engine *grading.Engine,
	scoreConverter ScoreConverterService,
	db *gorm.DB,
) SubmissionService {
	return &submissionService{
		testRepo:       testRepo,
		submissionRepo: submissionRepo,
		engine:         engine,
		scoreConverter: scoreConverter,
		db:             db,
	}
}

// Submit grades a learner's answers and stores them as a new attempt.
// Repeated calls create repeated attempts.
func (s *submissionService) Submit(ctx context.Context, p auth.Principal, testID uint, req dto.SubmitTestDTO) (*dto.SubmissionDetailDTO, error) {
	if !p.Authenticated() {
		return nil, fmt.Errorf("submit test %d: %w", testID, apperror.ErrUnauthorized)
	}

	var (
		test      *model.Test
		submitted model.Submission
	)
	// The test is read inside the transaction so grading never runs against
	// a definition edited between lookup and insert.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := s.testRepo.WithTx(tx).FindByIDWithParts(ctx, testID)
		if err != nil {
			return fmt.Errorf("test %d: %w", testID, err)
		}
		answers, err := normalizeSubmission(*t, req)
		if err != nil {
			return err
		}

		results := s.engine.GradeTest(*t, answers)
		total, status := grading.AggregateSubmission(results)
		submitted = model.Submission{
			UserID:      p.UserID,
			TestID:      t.ID,
			TestType:    t.Type,
			PartResults: results,
			TotalScore:  total,
			Status:      status,
			Version:     1,
		}
		if err := s.submissionRepo.WithTx(tx).Create(ctx, &submitted); err != nil {
			return err
		}
		test = t
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Uint("userID", p.UserID).Msg("Submit: submission rejected or not stored")
		return nil, err
	}

	log.Info().
		Uint("submissionID", submitted.ID).
		Uint("testID", testID).
		Uint("userID", p.UserID).
		Str("status", string(submitted.Status)).
		Msg("Submit: submission stored")
	return s.toDetail(&submitted, test.Title), nil
}

// normalizeSubmission matches submitted parts to the test by part number.
func normalizeSubmission(test model.Test, req dto.SubmitTestDTO) (map[int]grading.AnswerSet, error) {
	parts := make(map[int]model.Part, len(test.Parts))
	for _, p := range test.Parts {
		parts[p.PartNumber] = p
	}

	var details []string
	answers := make(map[int]grading.AnswerSet, len(req.Parts))
	for _, pa := range req.Parts {
		part, ok := parts[pa.PartNumber]
		if !ok {
			details = append(details, fmt.Sprintf("part %d does not exist in test %d", pa.PartNumber, test.ID))
			continue
		}
		if _, dup := answers[pa.PartNumber]; dup {
			details = append(details, fmt.Sprintf("part %d submitted more than once", pa.PartNumber))
			continue
		}
		set, err := grading.NormalizeAnswers(part, pa.Answers)
		if err != nil {
			details = append(details, fmt.Sprintf("part %d: %s", pa.PartNumber, err.Error()))
			continue
		}
		answers[pa.PartNumber] = set
	}
	if len(details) > 0 {
		return nil, apperror.Validation("invalid answers", details...)
	}
	return answers, nil
}

// Grade merges reviewer scores into a submission and marks it graded.
// Parts not named in req keep their stored score; after merging every part
// must be scored. The write is rejected if req.Version is stale.
func (s *submissionService) Grade(ctx context.Context, p auth.Principal, submissionID uint, req dto.GradeSubmissionDTO) (*dto.SubmissionDetailDTO, error) {
	if !p.IsAdmin() {
		return nil, apperror.Forbidden("grade submission %d", submissionID)
	}
	if req.Version == 0 {
		return nil, apperror.Validation("invalid grade request", "version is required")
	}

	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		log.Warn().Err(err).Uint("submissionID", submissionID).Msg("Grade: submission lookup failed")
		return nil, fmt.Errorf("submission %d: %w", submissionID, err)
	}
	if submission.Version != req.Version {
		return nil, apperror.Conflict("submission %d is at version %d, request was based on version %d",
			submissionID, submission.Version, req.Version)
	}

	merged, err := mergePartScores(submission.PartResults, req.PartResults)
	if err != nil {
		return nil, err
	}
	feedback, err := mergeFeedback(submission, req.Feedback)
	if err != nil {
		return nil, err
	}

	total, status := grading.AggregateSubmission(merged)
	if status != model.SubmissionGraded {
		// mergePartScores guarantees every part is scored.
		return nil, fmt.Errorf("submission %d still pending after merge", submissionID)
	}

	now := time.Now()
	graderID := p.UserID
	submission.PartResults = merged
	submission.TotalScore = total
	submission.Status = status
	submission.Comments = req.Comments
	submission.Feedback = feedback
	submission.GradedBy = &graderID
	submission.GradedAt = &now

	if err := s.submissionRepo.UpdateGrade(ctx, submission, req.Version); err != nil {
		log.Error().Err(err).Uint("submissionID", submissionID).Msg("Grade: failed to persist grade")
		return nil, err
	}

	log.Info().
		Uint("submissionID", submissionID).
		Uint("gradedBy", graderID).
		Float64("totalScore", *total).
		Uint("version", submission.Version).
		Msg("Grade: submission graded")
	return s.toDetail(submission, s.lookupTitle(ctx, submission.TestID)), nil
}

func mergePartScores(stored []model.PartResult, scores []dto.PartScoreDTO) ([]model.PartResult, error) {
	merged := make([]model.PartResult, len(stored))
	copy(merged, stored)
	index := make(map[int]int, len(merged))
	for i, pr := range merged {
		index[pr.PartNumber] = i
	}

	var details []string
	seen := make(map[int]bool, len(scores))
	for _, ps := range scores {
		i, ok := index[ps.PartNumber]
		if !ok {
			details = append(details, fmt.Sprintf("part %d is not part of this submission", ps.PartNumber))
			continue
		}
		if seen[ps.PartNumber] {
			details = append(details, fmt.Sprintf("part %d scored more than once", ps.PartNumber))
			continue
		}
		seen[ps.PartNumber] = true
		if ps.Score == nil {
			details = append(details, fmt.Sprintf("part %d: score is required", ps.PartNumber))
			continue
		}

		maxScore := merged[i].MaxScore
		if ps.MaxScore != nil {
			if !finite(*ps.MaxScore) || *ps.MaxScore < 0 {
				details = append(details, fmt.Sprintf("part %d: maxScore must be a non-negative number", ps.PartNumber))
				continue
			}
			maxScore = *ps.MaxScore
		}
		score := *ps.Score
		if !finite(score) || score < 0 || score > maxScore {
			details = append(details, fmt.Sprintf("part %d: score %v is outside [0, %v]", ps.PartNumber, score, maxScore))
			continue
		}

		merged[i].Score = &score
		merged[i].MaxScore = maxScore
	}

	for _, pr := range merged {
		if pr.Score == nil && !seen[pr.PartNumber] {
			details = append(details, fmt.Sprintf("part %d has no score", pr.PartNumber))
		}
	}
	if len(details) > 0 {
		sort.Strings(details)
		return nil, apperror.Validation("invalid part results", details...)
	}
	return merged, nil
}

func mergeFeedback(submission *model.Submission, notes map[string]string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(submission.Feedback)+len(notes))
	for k, v := range submission.Feedback {
		out[k] = v
	}
	if len(notes) == 0 {
		return out, nil
	}

	parts := make(map[int]bool, len(submission.PartResults))
	for _, pr := range submission.PartResults {
		parts[pr.PartNumber] = true
	}
	var details []string
	for k, note := range notes {
		n, err := strconv.Atoi(k)
		if err != nil || !parts[n] {
			details = append(details, fmt.Sprintf("feedback key %q is not a part of this submission", k))
			continue
		}
		out[strconv.Itoa(n)] = note
	}
	if len(details) > 0 {
		sort.Strings(details)
		return nil, apperror.Validation("invalid feedback", details...)
	}
	return out, nil
}

func (s *submissionService) GetSubmission(ctx context.Context, p auth.Principal, submissionID uint) (*dto.SubmissionDetailDTO, error) {
	if !p.Authenticated() {
		return nil, fmt.Errorf("submission %d: %w", submissionID, apperror.ErrUnauthorized)
	}
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		log.Warn().Err(err).Uint("submissionID", submissionID).Msg("GetSubmission: lookup failed")
		return nil, fmt.Errorf("submission %d: %w", submissionID, err)
	}
	if !p.CanRead(submission.UserID) {
		return nil, apperror.Forbidden("submission %d belongs to another user", submissionID)
	}
	return s.toDetail(submission, s.lookupTitle(ctx, submission.TestID)), nil
}

func (s *submissionService) ListSubmissionsForUser(ctx context.Context, p auth.Principal, userID uint) ([]dto.SubmissionSummaryDTO, error) {
	if !p.Authenticated() {
		return nil, fmt.Errorf("submissions of user %d: %w", userID, apperror.ErrUnauthorized)
	}
	if !p.CanRead(userID) {
		return nil, apperror.Forbidden("submissions of user %d", userID)
	}
	submissions, err := s.submissionRepo.FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("ListSubmissionsForUser: repository error")
		return nil, err
	}
	return s.toSummaries(submissions), nil
}

func (s *submissionService) ListAllSubmissions(ctx context.Context, p auth.Principal, filter dto.SubmissionFilterDTO) ([]dto.SubmissionSummaryDTO, error) {
	if !p.IsAdmin() {
		return nil, apperror.Forbidden("list all submissions")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	submissions, err := s.submissionRepo.FindAll(ctx, repository.SubmissionFilter{
		Status:   model.SubmissionStatus(filter.Status),
		TestID:   filter.TestID,
		UserID:   filter.UserID,
		TestType: model.TestType(filter.TestType),
		Limit:    limit,
		Offset:   filter.Offset,
	})
	if err != nil {
		log.Error().Err(err).Interface("filter", filter).Msg("ListAllSubmissions: repository error")
		return nil, err
	}
	return s.toSummaries(submissions), nil
}

// PendingReviewQueue lists submissions awaiting a reviewer, oldest first.
func (s *submissionService) PendingReviewQueue(ctx context.Context, p auth.Principal, limit int) ([]dto.SubmissionSummaryDTO, error) {
	if !p.IsAdmin() {
		return nil, apperror.Forbidden("review queue")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	submissions, err := s.submissionRepo.FindAll(ctx, repository.SubmissionFilter{
		Status:      model.SubmissionPending,
		OldestFirst: true,
		Limit:       limit,
	})
	if err != nil {
		log.Error().Err(err).Msg("PendingReviewQueue: repository error")
		return nil, err
	}
	return s.toSummaries(submissions), nil
}

func (s *submissionService) lookupTitle(ctx context.Context, testID uint) string {
	titles, err := s.testRepo.FindTitles(ctx, []uint{testID})
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("Could not load test title for submission response")
		return ""
	}
	return titles[testID]
}

func (s *submissionService) toDetail(sub *model.Submission, testTitle string) *dto.SubmissionDetailDTO {
	var resp dto.SubmissionDetailDTO
	if err := copier.Copy(&resp, sub); err != nil {
		log.Warn().Err(err).Uint("submissionID", sub.ID).Msg("Error copying submission to DTO")
	}
	resp.TestTitle = testTitle
	resp.TestType = string(sub.TestType)
	resp.Status = string(sub.Status)
	resp.MaxScore = sub.MaxTotal()

	resp.PartResults = make([]dto.PartResultDTO, len(sub.PartResults))
	for i, pr := range sub.PartResults {
		out := dto.PartResultDTO{
			PartNumber:        pr.PartNumber,
			Answers:           pr.Answers,
			Score:             pr.Score,
			MaxScore:          pr.MaxScore,
			NeedsManualReview: pr.NeedsManualReview,
		}
		for _, o := range pr.Outcomes {
			out.Outcomes = append(out.Outcomes, dto.QuestionOutcomeDTO(o))
		}
		if note, ok := sub.Feedback[strconv.Itoa(pr.PartNumber)].(string); ok {
			out.Feedback = note
		}
		resp.PartResults[i] = out
	}

	resp.Percent, resp.Band = s.scale(sub)
	return &resp
}

func (s *submissionService) toSummaries(submissions []model.Submission) []dto.SubmissionSummaryDTO {
	summaries := make([]dto.SubmissionSummaryDTO, 0, len(submissions))
	for i := range submissions {
		sub := &submissions[i]
		summary := dto.SubmissionSummaryDTO{
			ID:         sub.ID,
			UserID:     sub.UserID,
			TestID:     sub.TestID,
			TestType:   string(sub.TestType),
			TotalScore: sub.TotalScore,
			MaxScore:   sub.MaxTotal(),
			Status:     string(sub.Status),
			Version:    sub.Version,
			CreatedAt:  sub.CreatedAt,
		}
		_, summary.Band = s.scale(sub)
		summaries = append(summaries, summary)
	}
	return summaries
}

// scale derives percent and band estimate for a graded submission.
func (s *submissionService) scale(sub *model.Submission) (*float64, *float64) {
	if sub.TotalScore == nil {
		return nil, nil
	}
	percent, ok := s.scoreConverter.Percent(*sub.TotalScore, sub.MaxTotal())
	if !ok {
		return nil, nil
	}
	band, err := s.scoreConverter.ConvertToBand(percent)
	if err != nil {
		log.Warn().Err(err).Uint("submissionID", sub.ID).Float64("percent", percent).Msg("Failed to convert percent to band")
		return &percent, nil
	}
	return &percent, &band
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

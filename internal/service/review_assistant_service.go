package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/ieltsprep/internal/apperror"
	"github.com/lshigami/ieltsprep/internal/auth"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/rs/zerolog/log"
)

var errAssistantDisabled = errors.New("GEMINI_API_KEY is not configured")

// ReviewAssistantService proposes scores for parts awaiting manual review.
// Suggestions are advisory: a reviewer still has to grade the submission.
type ReviewAssistantService interface {
	SuggestPartScore(ctx context.Context, p auth.Principal, submissionID uint, partNumber int) (*dto.ScoreSuggestionDTO, error)
}

type reviewAssistantService struct {
	submissionRepo repository.SubmissionRepository
	testRepo       repository.TestRepository
	llm            GeminiLLMService
}

func NewReviewAssistantService(
	submissionRepo repository.SubmissionRepository,
	testRepo repository.TestRepository,
	llm GeminiLLMService,
) ReviewAssistantService {
	return &reviewAssistantService{submissionRepo: submissionRepo, testRepo: testRepo, llm: llm}
}

func (s *reviewAssistantService) SuggestPartScore(ctx context.Context, p auth.Principal, submissionID uint, partNumber int) (*dto.ScoreSuggestionDTO, error) {
	if !p.IsAdmin() {
		return nil, apperror.Forbidden("score suggestion for submission %d", submissionID)
	}
	if !s.llm.Available() {
		return nil, apperror.Dependency("review assistant", errAssistantDisabled)
	}

	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("submission %d: %w", submissionID, err)
	}
	var result *model.PartResult
	for i := range submission.PartResults {
		if submission.PartResults[i].PartNumber == partNumber {
			result = &submission.PartResults[i]
			break
		}
	}
	if result == nil {
		return nil, apperror.NotFound("part %d of submission %d", partNumber, submissionID)
	}
	if !result.NeedsManualReview {
		return nil, apperror.Validation("part is graded automatically",
			fmt.Sprintf("part %d of submission %d does not need manual review", partNumber, submissionID))
	}

	test, err := s.testRepo.FindByIDWithParts(ctx, submission.TestID)
	if err != nil {
		return nil, fmt.Errorf("test %d: %w", submission.TestID, err)
	}
	var part *model.Part
	for i := range test.Parts {
		if test.Parts[i].PartNumber == partNumber {
			part = &test.Parts[i]
			break
		}
	}
	if part == nil {
		return nil, apperror.NotFound("part %d no longer exists in test %d", partNumber, test.ID)
	}

	feedback, score, err := s.llm.ScorePart(ctx, PartScoringRequest{
		TestType: test.Type,
		Part:     *part,
		Answers:  result.Answers,
		MaxScore: result.MaxScore,
	})
	if err != nil {
		log.Error().Err(err).Uint("submissionID", submissionID).Int("partNumber", partNumber).Msg("SuggestPartScore: AI scoring failed")
		return nil, apperror.Dependency("review assistant", err)
	}

	log.Info().
		Uint("submissionID", submissionID).
		Int("partNumber", partNumber).
		Float64("suggestedScore", score).
		Msg("SuggestPartScore: suggestion produced")
	return &dto.ScoreSuggestionDTO{
		SubmissionID: submissionID,
		PartNumber:   partNumber,
		Score:        score,
		MaxScore:     result.MaxScore,
		Feedback:     feedback,
	}, nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lshigami/ieltsprep/internal/apperror"
	"github.com/lshigami/ieltsprep/internal/auth"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/rs/zerolog/log"
)

type AdminTestService interface {
	CreateTest(ctx context.Context, p auth.Principal, req dto.TestCreateDTO) (*dto.TestResponseDTO, error)
}

type adminTestService struct {
	testRepo repository.TestRepository
}

func NewAdminTestService(testRepo repository.TestRepository) AdminTestService {
	return &adminTestService{testRepo: testRepo}
}

func (s *adminTestService) CreateTest(ctx context.Context, p auth.Principal, req dto.TestCreateDTO) (*dto.TestResponseDTO, error) {
	if !p.IsAdmin() {
		return nil, apperror.Forbidden("create test")
	}

	testModel, err := buildTest(req)
	if err != nil {
		return nil, err
	}

	if err := s.testRepo.Create(ctx, testModel); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create test in database")
		return nil, err
	}
	log.Info().Uint("testID", testModel.ID).Str("type", string(testModel.Type)).Int("parts", len(testModel.Parts)).Msg("Test created")

	created, err := s.testRepo.FindByIDWithParts(ctx, testModel.ID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testModel.ID).Msg("Failed to retrieve newly created test for response")
		return toTestResponse(testModel)
	}
	return toTestResponse(created)
}

// buildTest validates the authoring payload and converts it to a model.
// Part numbers are unique per test, question numbers unique per part, and
// every objective question carries an answer key.
func buildTest(req dto.TestCreateDTO) (*model.Test, error) {
	testType := model.TestType(req.Type)
	var details []string
	if !testType.Valid() {
		details = append(details, fmt.Sprintf("unknown test type %q", req.Type))
	}
	if len(req.Parts) == 0 {
		details = append(details, "a test needs at least one part")
	}

	parts := make([]model.Part, 0, len(req.Parts))
	seenParts := make(map[int]bool, len(req.Parts))
	for _, pDto := range req.Parts {
		if seenParts[pDto.PartNumber] {
			details = append(details, fmt.Sprintf("duplicate partNumber %d", pDto.PartNumber))
			continue
		}
		seenParts[pDto.PartNumber] = true

		part := model.Part{
			PartNumber:   pDto.PartNumber,
			Title:        pDto.Title,
			Instructions: pDto.Instructions,
			Passage:      pDto.Passage,
			AudioURL:     pDto.AudioURL,
			ImageURL:     pDto.ImageURL,
			DefaultMarks: pDto.DefaultMarks,
			Questions:    make([]model.Question, 0, len(pDto.Questions)),
		}

		seenQuestions := make(map[int]bool, len(pDto.Questions))
		for _, qDto := range pDto.Questions {
			if seenQuestions[qDto.QuestionNumber] {
				details = append(details, fmt.Sprintf("part %d: duplicate questionNumber %d", pDto.PartNumber, qDto.QuestionNumber))
				continue
			}
			seenQuestions[qDto.QuestionNumber] = true

			q := model.Question{
				QuestionNumber: qDto.QuestionNumber,
				QuestionType:   model.QuestionType(qDto.QuestionType),
				Prompt:         qDto.Prompt,
				Options:        qDto.Options,
				CorrectAnswer:  qDto.CorrectAnswer,
				Marks:          qDto.Marks,
			}
			if !q.QuestionType.IsSubjective() && (q.CorrectAnswer == nil || strings.TrimSpace(*q.CorrectAnswer) == "") {
				details = append(details, fmt.Sprintf("part %d question %d: %s questions need a correctAnswer", pDto.PartNumber, qDto.QuestionNumber, qDto.QuestionType))
			}
			if q.QuestionType.IsSubjective() {
				q.CorrectAnswer = nil
			}
			part.Questions = append(part.Questions, q)
		}
		parts = append(parts, part)
	}

	if len(details) > 0 {
		return nil, apperror.Validation("invalid test", details...)
	}
	return &model.Test{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        testType,
		Parts:       parts,
	}, nil
}

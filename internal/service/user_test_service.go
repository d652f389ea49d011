package service

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/ieltsprep/internal/auth"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/rs/zerolog/log"
)

type UserTestService interface {
	GetAllTests(ctx context.Context) ([]dto.TestSummaryDTO, error)
	// GetTestDetails returns a test with its parts and questions. Answer keys
	// are only included for administrators.
	GetTestDetails(ctx context.Context, p auth.Principal, testID uint) (*dto.TestResponseDTO, error)
}

type userTestService struct {
	testRepo repository.TestRepository
}

func NewUserTestService(testRepo repository.TestRepository) UserTestService {
	return &userTestService{testRepo: testRepo}
}

func (s *userTestService) GetAllTests(ctx context.Context) ([]dto.TestSummaryDTO, error) {
	rows, err := s.testRepo.FindAllWithCounts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get all tests with counts from repository")
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}

	dtos := make([]dto.TestSummaryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, dto.TestSummaryDTO{
			ID:            row.Test.ID,
			Title:         row.Test.Title,
			Description:   row.Test.Description,
			Type:          string(row.Test.Type),
			PartCount:     row.PartCount,
			QuestionCount: row.QuestionCount,
			CreatedAt:     row.Test.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *userTestService) GetTestDetails(ctx context.Context, p auth.Principal, testID uint) (*dto.TestResponseDTO, error) {
	test, err := s.testRepo.FindByIDWithParts(ctx, testID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to get test details from repository")
		return nil, fmt.Errorf("test %d: %w", testID, err)
	}

	resp, err := toTestResponse(test)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		for i := range resp.Parts {
			for j := range resp.Parts[i].Questions {
				resp.Parts[i].Questions[j].CorrectAnswer = nil
			}
		}
	}
	return resp, nil
}

func toTestResponse(test *model.Test) (*dto.TestResponseDTO, error) {
	var resp dto.TestResponseDTO
	if err := copier.Copy(&resp, test); err != nil {
		log.Error().Err(err).Uint("testID", test.ID).Msg("Failed to copy Test model to TestResponseDTO")
		return nil, fmt.Errorf("error preparing test details response: %w", err)
	}
	resp.Type = string(test.Type)
	return &resp, nil
}

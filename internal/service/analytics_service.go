package service

import (
	"context"
	"math"
	"sort"

	"github.com/lshigami/ieltsprep/internal/apperror"
	"github.com/lshigami/ieltsprep/internal/auth"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/rs/zerolog/log"
)

// DefaultTopTests is how many tests the dashboard ranks when unconfigured.
const DefaultTopTests = 5

type AnalyticsService interface {
	GetSummary(ctx context.Context, p auth.Principal) (*dto.AnalyticsDTO, error)
}

type analyticsService struct {
	userRepo       repository.UserRepository
	submissionRepo repository.SubmissionRepository
	testRepo       repository.TestRepository
	topN           int
}

func NewAnalyticsService(
	userRepo repository.UserRepository,
	submissionRepo repository.SubmissionRepository,
	testRepo repository.TestRepository,
	topN int,
) AnalyticsService {
	if topN <= 0 {
		topN = DefaultTopTests
	}
	return &analyticsService{
		userRepo:       userRepo,
		submissionRepo: submissionRepo,
		testRepo:       testRepo,
		topN:           topN,
	}
}

func (s *analyticsService) GetSummary(ctx context.Context, p auth.Principal) (*dto.AnalyticsDTO, error) {
	if !p.IsAdmin() {
		return nil, apperror.Forbidden("analytics summary")
	}

	students, err := s.userRepo.CountByRole(ctx, model.RoleStudent)
	if err != nil {
		log.Error().Err(err).Msg("GetSummary: failed to count students")
		return nil, err
	}
	submissions, err := s.submissionRepo.FindAll(ctx, repository.SubmissionFilter{OldestFirst: true})
	if err != nil {
		log.Error().Err(err).Msg("GetSummary: failed to load submissions")
		return nil, err
	}

	summary := Summarize(students, submissions, s.topN)

	ids := make([]uint, len(summary.TopTests))
	for i, t := range summary.TopTests {
		ids[i] = t.TestID
	}
	titles, err := s.testRepo.FindTitles(ctx, ids)
	if err != nil {
		// Titles are decoration; the counts are still correct without them.
		log.Warn().Err(err).Msg("GetSummary: could not load test titles")
	} else {
		for i := range summary.TopTests {
			summary.TopTests[i].Title = titles[summary.TopTests[i].TestID]
		}
	}

	log.Debug().Int("attempts", summary.Attempts).Int("pending", summary.PendingReview).Msg("GetSummary: computed")
	return &summary, nil
}

// Summarize derives dashboard statistics from submissions. It only reads its
// input. Ties in TopTests keep the order in which tests first appear in
// submissions.
func Summarize(students int64, submissions []model.Submission, topN int) dto.AnalyticsDTO {
	type sectionAcc struct {
		graded     int
		scoreSum   float64
		percentSum float64
		percentN   int
	}
	sections := make(map[model.TestType]*sectionAcc, len(model.TestTypes))
	for _, tt := range model.TestTypes {
		sections[tt] = &sectionAcc{}
	}

	counts := make(map[uint]int)
	var order []uint
	pending := 0

	for i := range submissions {
		sub := &submissions[i]
		if _, seen := counts[sub.TestID]; !seen {
			order = append(order, sub.TestID)
		}
		counts[sub.TestID]++

		if sub.Status != model.SubmissionGraded || sub.TotalScore == nil {
			if sub.Status == model.SubmissionPending {
				pending++
			}
			continue
		}
		acc, ok := sections[sub.TestType]
		if !ok {
			acc = &sectionAcc{}
			sections[sub.TestType] = acc
		}
		acc.graded++
		acc.scoreSum += *sub.TotalScore
		if maxTotal := sub.MaxTotal(); maxTotal > 0 {
			acc.percentSum += *sub.TotalScore / maxTotal * 100
			acc.percentN++
		}
	}

	out := dto.AnalyticsDTO{
		Students:      students,
		Attempts:      len(submissions),
		PendingReview: pending,
		BySection:     make(map[string]dto.SectionStatsDTO, len(sections)),
		TopTests:      topTests(order, counts, topN),
	}
	for tt, acc := range sections {
		stats := dto.SectionStatsDTO{Graded: acc.graded}
		if acc.graded > 0 {
			avg := round2(acc.scoreSum / float64(acc.graded))
			stats.AvgScore = &avg
		}
		if acc.percentN > 0 {
			avg := round2(acc.percentSum / float64(acc.percentN))
			stats.AvgPercent = &avg
		}
		out.BySection[string(tt)] = stats
	}
	return out
}

// topTests ranks by count descending. order is first-seen order, which the
// stable sort keeps for ties.
func topTests(order []uint, counts map[uint]int, topN int) []dto.TestAttemptsDTO {
	ranked := make([]dto.TestAttemptsDTO, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, dto.TestAttemptsDTO{TestID: id, Attempts: counts[id]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Attempts > ranked[j].Attempts })
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

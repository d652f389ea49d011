package service

import (
	"fmt"
	"math"
)

// MaxBand is the top of the IELTS band scale.
const MaxBand float64 = 9.0

type ScoreConverterService interface {
	// ConvertToBand estimates an IELTS band from a percentage score.
	ConvertToBand(percent float64) (float64, error)
	// Percent returns score as a percentage of maxScore, or false when maxScore is zero.
	Percent(score, maxScore float64) (float64, bool)
}

type scoreConverterServiceImpl struct{}

func NewScoreConverterService() ScoreConverterService {
	return &scoreConverterServiceImpl{}
}

// bandThresholds follow the Academic Reading raw-score table (out of 40)
// expressed as percentages, highest first.
var bandThresholds = []struct {
	minPercent float64
	band       float64
}{
	{97.5, 9.0}, // 39-40
	{92.5, 8.5}, // 37-38
	{87.5, 8.0}, // 35-36
	{82.5, 7.5}, // 33-34
	{75.0, 7.0}, // 30-32
	{67.5, 6.5}, // 27-29
	{57.5, 6.0}, // 23-26
	{47.5, 5.5}, // 19-22
	{37.5, 5.0}, // 15-18
	{32.5, 4.5}, // 13-14
	{25.0, 4.0}, // 10-12
	{20.0, 3.5}, // 8-9
	{15.0, 3.0}, // 6-7
	{10.0, 2.5}, // 4-5
	{5.0, 2.0},
}

func (s *scoreConverterServiceImpl) ConvertToBand(percent float64) (float64, error) {
	if math.IsNaN(percent) || percent < 0 || percent > 100 {
		return 0, fmt.Errorf("percent %.2f is out of valid range (0-100)", percent)
	}
	for _, t := range bandThresholds {
		if percent >= t.minPercent {
			return t.band, nil
		}
	}
	if percent > 0 {
		return 1.0, nil
	}
	return 0, nil
}

func (s *scoreConverterServiceImpl) Percent(score, maxScore float64) (float64, bool) {
	if maxScore <= 0 {
		return 0, false
	}
	return math.Round(score/maxScore*10000) / 100, true
}

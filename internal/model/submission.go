package model

import (
	"time"

	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "pending"
	SubmissionGraded  SubmissionStatus = "graded"
)

// Submission is one learner attempt at a test. It is never deleted.
type Submission struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	UserID      uint              `json:"userId" gorm:"not null;index"`
	TestID      uint              `json:"testId" gorm:"not null;index"`
	TestType    TestType          `json:"testType" gorm:"not null;index"`
	PartResults []PartResult      `json:"partResults" gorm:"type:text;serializer:json"`
	TotalScore  *float64          `json:"totalScore,omitempty"`
	Status      SubmissionStatus  `json:"status" gorm:"not null;default:'pending';index"`
	Comments    string            `json:"comments,omitempty" gorm:"type:text"`
	Feedback    datatypes.JSONMap `json:"feedback,omitempty"` // reviewer notes keyed by part number
	GradedBy    *uint             `json:"gradedBy,omitempty"`
	GradedAt    *time.Time        `json:"gradedAt,omitempty"`
	Version     uint              `json:"version" gorm:"not null;default:1"`
	CreatedAt   time.Time         `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// PartResult is the graded or pending outcome of one part, embedded in a Submission.
type PartResult struct {
	PartNumber        int               `json:"partNumber"`
	Answers           map[int]string    `json:"answers"`
	Score             *float64          `json:"score,omitempty"`
	MaxScore          float64           `json:"maxScore"`
	NeedsManualReview bool              `json:"needsManualReview"`
	Outcomes          []QuestionOutcome `json:"outcomes,omitempty"`
}

// QuestionOutcome records how one objective question was graded.
type QuestionOutcome struct {
	QuestionNumber int     `json:"questionNumber"`
	Answer         string  `json:"answer"`
	Correct        bool    `json:"correct"`
	Awarded        float64 `json:"awarded"`
	Marks          float64 `json:"marks"`
}

// MaxTotal is the sum of every part's max score.
func (s Submission) MaxTotal() float64 {
	total := 0.0
	for _, pr := range s.PartResults {
		total += pr.MaxScore
	}
	return total
}

package dto

import "time"

// PartAnswersDTO carries the answers for one part, either as a positional
// list or as an object keyed by question number.
type PartAnswersDTO struct {
	PartNumber int `json:"partNumber" binding:"required,min=1"`
	Answers    any `json:"answers"`
}

// SubmitTestDTO is the request DTO for a learner submitting a whole test.
type SubmitTestDTO struct {
	Parts []PartAnswersDTO `json:"parts" binding:"dive"`
}

type QuestionOutcomeDTO struct {
	QuestionNumber int     `json:"questionNumber"`
	Answer         string  `json:"answer"`
	Correct        bool    `json:"correct"`
	Awarded        float64 `json:"awarded"`
	Marks          float64 `json:"marks"`
}

type PartResultDTO struct {
	PartNumber        int                  `json:"partNumber"`
	Answers           map[int]string       `json:"answers"`
	Score             *float64             `json:"score"`
	MaxScore          float64              `json:"maxScore"`
	NeedsManualReview bool                 `json:"needsManualReview"`
	Outcomes          []QuestionOutcomeDTO `json:"outcomes,omitempty"`
	Feedback          string               `json:"feedback,omitempty"`
}

// SubmissionDetailDTO is the full view of one submission.
type SubmissionDetailDTO struct {
	ID          uint            `json:"id"`
	UserID      uint            `json:"userId"`
	TestID      uint            `json:"testId"`
	TestTitle   string          `json:"testTitle,omitempty"`
	TestType    string          `json:"testType"`
	PartResults []PartResultDTO `json:"partResults"`
	TotalScore  *float64        `json:"totalScore"`
	MaxScore    float64         `json:"maxScore"`
	Percent     *float64        `json:"percent,omitempty"`
	Band        *float64        `json:"band,omitempty"`
	Status      string          `json:"status"`
	Comments    string          `json:"comments,omitempty"`
	GradedBy    *uint           `json:"gradedBy,omitempty"`
	GradedAt    *time.Time      `json:"gradedAt,omitempty"`
	Version     uint            `json:"version"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SubmissionSummaryDTO is for listing submissions.
type SubmissionSummaryDTO struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"userId"`
	TestID     uint      `json:"testId"`
	TestType   string    `json:"testType"`
	TotalScore *float64  `json:"totalScore"`
	MaxScore   float64   `json:"maxScore"`
	Band       *float64  `json:"band,omitempty"`
	Status     string    `json:"status"`
	Version    uint      `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
}

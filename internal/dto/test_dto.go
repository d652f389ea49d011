package dto

import "time"

// QuestionResponseDTO is used for displaying question details to users.
type QuestionResponseDTO struct {
	ID             uint     `json:"id"`
	QuestionNumber int      `json:"questionNumber"`
	QuestionType   string   `json:"questionType"`
	Prompt         string   `json:"prompt"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswer  *string  `json:"correctAnswer,omitempty"` // admin views only
	Marks          *float64 `json:"marks,omitempty"`
}

// PartResponseDTO is one part of a test with its ordered questions.
type PartResponseDTO struct {
	ID           uint                  `json:"id"`
	PartNumber   int                   `json:"partNumber"`
	Title        string                `json:"title"`
	Instructions string                `json:"instructions,omitempty"`
	Passage      string                `json:"passage,omitempty"`
	AudioURL     *string               `json:"audioUrl,omitempty"`
	ImageURL     *string               `json:"imageUrl,omitempty"`
	Questions    []QuestionResponseDTO `json:"questions,omitempty"`
}

// TestResponseDTO is used for displaying full test details to users.
type TestResponseDTO struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Type        string            `json:"type"`
	Parts       []PartResponseDTO `json:"parts,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// TestSummaryDTO is used for listing tests available to users.
type TestSummaryDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Type          string    `json:"type"`
	PartCount     int       `json:"partCount"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

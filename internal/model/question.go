package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionMultipleChoice    QuestionType = "multiple-choice"
	QuestionFillBlank         QuestionType = "fill-blank"
	QuestionGapFill           QuestionType = "gap-fill"
	QuestionTrueFalseNotGiven QuestionType = "true-false-not-given"
	QuestionYesNoNotGiven     QuestionType = "yes-no-not-given"
	QuestionMatching          QuestionType = "matching"
	QuestionShortAnswer       QuestionType = "short-answer"
	QuestionWritingPrompt     QuestionType = "writing-prompt"
	QuestionSpeakingPrompt    QuestionType = "speaking-prompt"
)

// IsSubjective reports whether answers of this type have no canonical answer.
func (t QuestionType) IsSubjective() bool {
	return t == QuestionWritingPrompt || t == QuestionSpeakingPrompt
}

type Question struct {
	ID             uint                        `gorm:"primarykey" json:"id"`
	PartID         uint                        `json:"partId" gorm:"not null;uniqueIndex:idx_question_part_number"`
	QuestionNumber int                         `json:"questionNumber" gorm:"not null;uniqueIndex:idx_question_part_number"`
	QuestionType   QuestionType                `json:"questionType" gorm:"not null"`
	Prompt         string                      `json:"prompt" gorm:"type:text"`
	Options        datatypes.JSONSlice[string] `json:"options,omitempty"`
	CorrectAnswer  *string                     `json:"correctAnswer,omitempty"` // alternatives separated by "|"
	Marks          *float64                    `json:"marks,omitempty"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

// HasAnswerKey reports whether the question can be graded automatically.
func (q Question) HasAnswerKey() bool {
	return !q.QuestionType.IsSubjective() && q.CorrectAnswer != nil && strings.TrimSpace(*q.CorrectAnswer) != ""
}

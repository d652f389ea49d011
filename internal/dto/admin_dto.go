package dto

// QuestionCreateDTO is used within PartCreateDTO for admin test creation.
type QuestionCreateDTO struct {
	QuestionNumber int      `json:"questionNumber" binding:"required,min=1"`
	QuestionType   string   `json:"questionType" binding:"required,oneof=multiple-choice fill-blank gap-fill true-false-not-given yes-no-not-given matching short-answer writing-prompt speaking-prompt"`
	Prompt         string   `json:"prompt"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswer  *string  `json:"correctAnswer,omitempty"`
	Marks          *float64 `json:"marks,omitempty" binding:"omitempty,gte=0"`
}

// PartCreateDTO describes one part of a new test.
type PartCreateDTO struct {
	PartNumber   int                 `json:"partNumber" binding:"required,min=1"`
	Title        string              `json:"title" binding:"required"`
	Instructions string              `json:"instructions,omitempty"`
	Passage      string              `json:"passage,omitempty"`
	AudioURL     *string             `json:"audioUrl,omitempty" binding:"omitempty,url"`
	ImageURL     *string             `json:"imageUrl,omitempty" binding:"omitempty,url"`
	DefaultMarks *float64            `json:"defaultMarks,omitempty" binding:"omitempty,gte=0"`
	Questions    []QuestionCreateDTO `json:"questions" binding:"dive"`
}

// TestCreateDTO is for admin to create a new test with all its parts.
type TestCreateDTO struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description,omitempty"`
	Type        string          `json:"type" binding:"required,oneof=Listening Reading Writing Speaking Full"`
	Parts       []PartCreateDTO `json:"parts" binding:"required,min=1,dive"`
}

// PartScoreDTO is a reviewer-supplied score for one part.
type PartScoreDTO struct {
	PartNumber int      `json:"partNumber" binding:"required,min=1"`
	Score      *float64 `json:"score" binding:"required"`
	MaxScore   *float64 `json:"maxScore,omitempty"`
}

// GradeSubmissionDTO is the admin payload for grading or re-grading a submission.
type GradeSubmissionDTO struct {
	Version     uint              `json:"version"`
	PartResults []PartScoreDTO    `json:"partResults" binding:"dive"`
	Comments    string            `json:"comments,omitempty"`
	Feedback    map[string]string `json:"feedback,omitempty"` // part number -> reviewer note
}

// SubmissionFilterDTO binds the admin list query string.
type SubmissionFilterDTO struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending graded"`
	TestID   uint   `form:"testId"`
	UserID   uint   `form:"userId"`
	TestType string `form:"testType" binding:"omitempty,oneof=Listening Reading Writing Speaking Full"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}

// ScoreSuggestionDTO is an AI estimate for a part awaiting review. It is never persisted.
type ScoreSuggestionDTO struct {
	SubmissionID uint    `json:"submissionId"`
	PartNumber   int     `json:"partNumber"`
	Score        float64 `json:"score"`
	MaxScore     float64 `json:"maxScore"`
	Feedback     string  `json:"feedback"`
}

// AnalyticsDTO is the admin dashboard summary.
type AnalyticsDTO struct {
	Students      int64                      `json:"students"`
	Attempts      int                        `json:"attempts"`
	PendingReview int                        `json:"pendingReview"`
	BySection     map[string]SectionStatsDTO `json:"bySection"`
	TopTests      []TestAttemptsDTO          `json:"topTests"`
}

type SectionStatsDTO struct {
	Graded     int      `json:"graded"`
	AvgScore   *float64 `json:"avgScore"`
	AvgPercent *float64 `json:"avgPercent"`
}

type TestAttemptsDTO struct {
	TestID   uint   `json:"testId"`
	Title    string `json:"title,omitempty"`
	Attempts int    `json:"attempts"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

type TestType string

const (
	TestTypeListening TestType = "Listening"
	TestTypeReading   TestType = "Reading"
	TestTypeWriting   TestType = "Writing"
	TestTypeSpeaking  TestType = "Speaking"
	TestTypeFull      TestType = "Full"
)

// TestTypes lists every section in display order.
var TestTypes = []TestType{TestTypeListening, TestTypeReading, TestTypeWriting, TestTypeSpeaking, TestTypeFull}

// IsSubjective reports whether every part of a test of this type needs a human or AI score.
func (t TestType) IsSubjective() bool {
	return t == TestTypeWriting || t == TestTypeSpeaking
}

func (t TestType) Valid() bool {
	for _, tt := range TestTypes {
		if tt == t {
			return true
		}
	}
	return false
}

type Test struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"not null;uniqueIndex"` // "Cambridge 18 Reading Test 1"
	Description string         `json:"description,omitempty"`
	Type        TestType       `json:"type" gorm:"not null;index"`
	Parts       []Part         `json:"parts,omitempty" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Part is a numbered section of a test. PartNumber correlates submitted answers with the part.
type Part struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	TestID       uint       `json:"testId" gorm:"not null;uniqueIndex:idx_part_test_number"`
	PartNumber   int        `json:"partNumber" gorm:"not null;uniqueIndex:idx_part_test_number"`
	Title        string     `json:"title"`
	Instructions string     `json:"instructions,omitempty" gorm:"type:text"`
	Passage      string     `json:"passage,omitempty" gorm:"type:text"` // reading passage or listening script
	AudioURL     *string    `json:"audioUrl,omitempty"`
	ImageURL     *string    `json:"imageUrl,omitempty"` // Writing Task 1 chart
	DefaultMarks *float64   `json:"defaultMarks,omitempty"`
	Questions    []Question `json:"questions,omitempty" gorm:"foreignKey:PartID;constraint:OnDelete:CASCADE;"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

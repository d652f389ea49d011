package grading

import (
	"math"
	"testing"

	"github.com/lshigami/ieltsprep/internal/model"
)

func ptr[T any](v T) *T { return &v }

func objective(number int, answer string, marks float64) model.Question {
	return model.Question{
		QuestionNumber: number,
		QuestionType:   model.QuestionTrueFalseNotGiven,
		CorrectAnswer:  ptr(answer),
		Marks:          ptr(marks),
	}
}

func TestGradePart_ScenarioA(t *testing.T) {
	part := model.Part{PartNumber: 1, Questions: []model.Question{
		objective(1, "True", 1),
		objective(2, "False", 1),
	}}
	answers := PositionalAnswers(part, []string{"true", "False"})

	got := NewEngine(Options{}).GradePart(model.TestTypeReading, part, answers)
	if got.Score == nil || *got.Score != 2 {
		t.Fatalf("expected score 2, got %v", got.Score)
	}
	if got.MaxScore != 2 {
		t.Errorf("expected maxScore 2, got %v", got.MaxScore)
	}
	if got.NeedsManualReview {
		t.Error("objective part must not need review")
	}
	if len(got.Outcomes) != 2 || !got.Outcomes[0].Correct || !got.Outcomes[1].Correct {
		t.Errorf("unexpected outcomes %+v", got.Outcomes)
	}
}

func TestGradePart_ScenarioB(t *testing.T) {
	part := model.Part{PartNumber: 1, Questions: []model.Question{{
		QuestionNumber: 1,
		QuestionType:   model.QuestionWritingPrompt,
		Marks:          ptr(25.0),
	}}}

	got := NewEngine(Options{}).GradePart(model.TestTypeWriting, part, AnswerSet{1: "Some people believe..."})
	if got.Score != nil {
		t.Errorf("expected undefined score, got %v", *got.Score)
	}
	if got.MaxScore != 25 {
		t.Errorf("expected maxScore 25, got %v", got.MaxScore)
	}
	if !got.NeedsManualReview {
		t.Error("writing part must need review")
	}
	if got.Answers[1] != "Some people believe..." {
		t.Error("answers should be kept for the reviewer")
	}

	_, status := AggregateSubmission([]model.PartResult{got})
	if status != model.SubmissionPending {
		t.Errorf("expected pending, got %s", status)
	}
}

func TestGradePart_ReviewGating(t *testing.T) {
	// Even a part with answer keys is gated when the test itself is subjective.
	part := model.Part{PartNumber: 1, Questions: []model.Question{objective(1, "True", 1)}}
	engine := NewEngine(Options{})

	for _, tt := range []model.TestType{model.TestTypeWriting, model.TestTypeSpeaking} {
		for _, answers := range []AnswerSet{nil, {}, {1: "True"}, {1: "anything"}} {
			got := engine.GradePart(tt, part, answers)
			if !got.NeedsManualReview || got.Score != nil {
				t.Errorf("%s with %v: expected pending review, got %+v", tt, answers, got)
			}
		}
	}
}

func TestGradePart_SubjectiveQuestionInObjectiveTest(t *testing.T) {
	part := model.Part{PartNumber: 3, Questions: []model.Question{
		objective(1, "B", 1),
		{QuestionNumber: 2, QuestionType: model.QuestionShortAnswer}, // no key
	}}
	got := NewEngine(Options{}).GradePart(model.TestTypeFull, part, AnswerSet{1: "B"})
	if !got.NeedsManualReview || got.Score != nil {
		t.Fatalf("expected review, got %+v", got)
	}
	if got.MaxScore != 2 {
		t.Errorf("expected maxScore 2 (explicit + default 1), got %v", got.MaxScore)
	}
}

func TestGradePart_ExactMatch(t *testing.T) {
	part := model.Part{PartNumber: 1, Questions: []model.Question{{
		QuestionNumber: 1,
		QuestionType:   model.QuestionFillBlank,
		CorrectAnswer:  ptr("Paris"),
	}}}
	engine := NewEngine(Options{})

	tests := []struct {
		answer string
		want   float64
	}{
		{"paris", 1},
		{" Paris ", 1},
		{"PARIS", 1},
		{"\tParis\n", 1},
		{"Pariss", 0},
		{"Par is", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			got := engine.GradePart(model.TestTypeListening, part, AnswerSet{1: tt.answer})
			if got.Score == nil || *got.Score != tt.want {
				t.Errorf("answer %q: expected %v, got %v", tt.answer, tt.want, got.Score)
			}
		})
	}
}

func TestGradePart_NoPartialCredit(t *testing.T) {
	part := model.Part{PartNumber: 2, Questions: []model.Question{
		objective(1, "A", 2.5),
		objective(2, "B", 2.5),
		objective(3, "C", 2.5),
	}}
	got := NewEngine(Options{}).GradePart(model.TestTypeReading, part, AnswerSet{1: "a", 2: "x", 3: "C"})
	if *got.Score != 5 {
		t.Fatalf("expected 5, got %v", *got.Score)
	}
	for _, o := range got.Outcomes {
		if o.Awarded != 0 && o.Awarded != o.Marks {
			t.Errorf("question %d awarded %v of %v", o.QuestionNumber, o.Awarded, o.Marks)
		}
	}
}

func TestGradePart_MissingAnswers(t *testing.T) {
	part := model.Part{PartNumber: 1, Questions: []model.Question{
		objective(1, "True", 1),
		objective(2, "False", 1),
	}}
	engine := NewEngine(Options{})

	for name, answers := range map[string]AnswerSet{
		"nil":     nil,
		"empty":   {},
		"partial": {2: "false"},
		"foreign": {99: "True"},
	} {
		t.Run(name, func(t *testing.T) {
			got := engine.GradePart(model.TestTypeListening, part, answers)
			if got.Score == nil {
				t.Fatal("objective part must be scored")
			}
			want := 0.0
			if name == "partial" {
				want = 1
			}
			if *got.Score != want || got.MaxScore != 2 {
				t.Errorf("expected %v/2, got %v/%v", want, *got.Score, got.MaxScore)
			}
		})
	}
}

func TestGradePart_ZeroQuestions(t *testing.T) {
	for _, tt := range []model.TestType{model.TestTypeReading, model.TestTypeWriting} {
		got := NewEngine(Options{}).GradePart(tt, model.Part{PartNumber: 1}, AnswerSet{1: "x"})
		if got.Score == nil || *got.Score != 0 || got.MaxScore != 0 || got.NeedsManualReview {
			t.Errorf("%s: expected 0/0 without review, got %+v", tt, got)
		}
	}
}

func TestGradePart_MarksDefaults(t *testing.T) {
	writing := func(marks *float64) model.Question {
		return model.Question{QuestionNumber: 1, QuestionType: model.QuestionWritingPrompt, Marks: marks}
	}
	tests := []struct {
		name    string
		opts    Options
		part    model.Part
		wantMax float64
	}{
		{"configured part default", Options{}, model.Part{Questions: []model.Question{writing(nil), {QuestionNumber: 2, QuestionType: model.QuestionWritingPrompt}}}, DefaultSubjectivePartMarks},
		{"custom part marks", Options{SubjectivePartMarks: 9}, model.Part{Questions: []model.Question{writing(nil)}}, 9},
		{"per question fallback", Options{SubjectivePartMarks: -1}, model.Part{Questions: []model.Question{writing(nil), {QuestionNumber: 2, QuestionType: model.QuestionWritingPrompt}}}, 2},
		{"explicit marks win", Options{SubjectivePartMarks: 9}, model.Part{Questions: []model.Question{writing(ptr(20.0))}}, 20},
		{"part level marks", Options{}, model.Part{DefaultMarks: ptr(4.0), Questions: []model.Question{writing(nil), {QuestionNumber: 2, QuestionType: model.QuestionWritingPrompt}}}, 8},
		{"negative marks clamp", Options{}, model.Part{Questions: []model.Question{writing(ptr(-3.0))}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewEngine(tt.opts).GradePart(model.TestTypeWriting, tt.part, nil)
			if got.MaxScore != tt.wantMax {
				t.Errorf("expected maxScore %v, got %v", tt.wantMax, got.MaxScore)
			}
		})
	}
}

func TestMatches_Alternatives(t *testing.T) {
	if !Matches("colour|color", " Color ") {
		t.Error("alternative spelling should match")
	}
	if !Matches("New  York", "new york") {
		t.Error("inner whitespace should collapse")
	}
	if Matches("colour|color", "colr") {
		t.Error("misspelling must not match")
	}
	if Matches("|", "") {
		t.Error("blank answer must never match")
	}
}

func TestAggregateSubmission_ScenarioC(t *testing.T) {
	results := []model.PartResult{
		{PartNumber: 1, Score: ptr(8.0), MaxScore: 10},
		{PartNumber: 2, MaxScore: 10, NeedsManualReview: true},
	}
	total, status := AggregateSubmission(results)
	if total != nil || status != model.SubmissionPending {
		t.Errorf("expected pending with no total, got %v %s", total, status)
	}
}

func TestAggregateSubmission_Idempotent(t *testing.T) {
	inputs := [][]model.PartResult{
		nil,
		{{PartNumber: 1, Score: ptr(8.0)}, {PartNumber: 2, Score: ptr(7.0), NeedsManualReview: true}},
		{{PartNumber: 1, Score: ptr(8.0)}, {PartNumber: 2, NeedsManualReview: true}},
	}
	for i, in := range inputs {
		t1, s1 := AggregateSubmission(in)
		t2, s2 := AggregateSubmission(in)
		if s1 != s2 || (t1 == nil) != (t2 == nil) || (t1 != nil && *t1 != *t2) {
			t.Errorf("input %d: results differ: %v/%s vs %v/%s", i, t1, s1, t2, s2)
		}
	}

	total, status := AggregateSubmission(inputs[1])
	if status != model.SubmissionGraded || math.Abs(*total-15) > 1e-9 {
		t.Errorf("expected graded 15, got %v %s", total, status)
	}
	total, status = AggregateSubmission(nil)
	if status != model.SubmissionGraded || *total != 0 {
		t.Errorf("empty submission should be graded with 0, got %v %s", total, status)
	}
}

func TestGradeTest_MissingPartIsEmpty(t *testing.T) {
	test := model.Test{Type: model.TestTypeListening, Parts: []model.Part{
		{PartNumber: 2, Questions: []model.Question{objective(1, "A", 1)}},
		{PartNumber: 1, Questions: []model.Question{objective(1, "B", 1)}},
	}}
	results := NewEngine(Options{}).GradeTest(test, map[int]AnswerSet{1: {1: "b"}})
	if len(results) != 2 || results[0].PartNumber != 1 || results[1].PartNumber != 2 {
		t.Fatalf("expected parts ordered 1,2 got %+v", results)
	}
	if *results[0].Score != 1 || *results[1].Score != 0 {
		t.Errorf("unexpected scores %v %v", *results[0].Score, *results[1].Score)
	}
}

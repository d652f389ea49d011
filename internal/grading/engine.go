// Package grading scores submitted answers against a test definition.
// Everything here is pure: no I/O, no errors for odd learner input.
package grading

import (
	"sort"
	"strings"

	"github.com/lshigami/ieltsprep/internal/model"
)

// AnswerSet holds one part's answers keyed by question number.
type AnswerSet map[int]string

// DefaultSubjectivePartMarks is used when Options leaves SubjectivePartMarks unset.
const DefaultSubjectivePartMarks = 10.0

// Options tune the engine.
type Options struct {
	// SubjectivePartMarks is the max score of a subjective part whose
	// questions and part carry no marks. Zero selects the default,
	// a negative value means one mark per question.
	SubjectivePartMarks float64
}

type Engine struct {
	subjectivePartMarks float64
}

func NewEngine(opts Options) *Engine {
	marks := opts.SubjectivePartMarks
	if marks == 0 {
		marks = DefaultSubjectivePartMarks
	}
	return &Engine{subjectivePartMarks: marks}
}

// GradePart grades one part of a test of type testType.
//
// Objective parts are scored by exact, case and whitespace insensitive
// comparison with no partial credit. Parts of Writing or Speaking tests, or
// containing any question without an answer key, come back unscored and
// flagged for manual review. A part without questions scores 0 of 0.
func (e *Engine) GradePart(testType model.TestType, part model.Part, answers AnswerSet) model.PartResult {
	questions := orderedQuestions(part)
	result := model.PartResult{
		PartNumber: part.PartNumber,
		Answers:    copyAnswers(answers),
	}

	if len(questions) == 0 {
		zero := 0.0
		result.Score = &zero
		return result
	}

	if testType.IsSubjective() || !allObjective(questions) {
		result.NeedsManualReview = true
		result.MaxScore = e.subjectiveMaxScore(part, questions)
		return result
	}

	score := 0.0
	for _, q := range questions {
		marks := questionMarks(part, q)
		given := answers[q.QuestionNumber]
		outcome := model.QuestionOutcome{
			QuestionNumber: q.QuestionNumber,
			Answer:         given,
			Marks:          marks,
		}
		if Matches(*q.CorrectAnswer, given) {
			outcome.Correct = true
			outcome.Awarded = marks
			score += marks
		}
		result.MaxScore += marks
		result.Outcomes = append(result.Outcomes, outcome)
	}
	result.Score = &score
	return result
}

// GradeTest grades every part of test. Parts absent from answersByPart are
// graded with an empty answer set.
func (e *Engine) GradeTest(test model.Test, answersByPart map[int]AnswerSet) []model.PartResult {
	parts := make([]model.Part, len(test.Parts))
	copy(parts, test.Parts)
	sort.SliceStable(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })

	results := make([]model.PartResult, 0, len(parts))
	for _, p := range parts {
		results = append(results, e.GradePart(test.Type, p, answersByPart[p.PartNumber]))
	}
	return results
}

// AggregateSubmission sums part scores. Any part still lacking a score keeps
// the submission pending with no total. The result depends only on its input.
func AggregateSubmission(results []model.PartResult) (*float64, model.SubmissionStatus) {
	total := 0.0
	for _, r := range results {
		if r.Score == nil {
			return nil, model.SubmissionPending
		}
		total += *r.Score
	}
	return &total, model.SubmissionGraded
}

// Matches compares a learner answer with an answer key. The key may list
// alternatives separated by "|".
func Matches(key, answer string) bool {
	given := normalize(answer)
	if given == "" {
		return false
	}
	for _, alt := range strings.Split(key, "|") {
		if strings.EqualFold(normalize(alt), given) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (e *Engine) subjectiveMaxScore(part model.Part, questions []model.Question) float64 {
	explicit := part.DefaultMarks != nil
	for _, q := range questions {
		if q.Marks != nil {
			explicit = true
			break
		}
	}
	if !explicit && e.subjectivePartMarks > 0 {
		return e.subjectivePartMarks
	}
	total := 0.0
	for _, q := range questions {
		total += questionMarks(part, q)
	}
	return total
}

func questionMarks(part model.Part, q model.Question) float64 {
	switch {
	case q.Marks != nil:
		return nonNegative(*q.Marks)
	case part.DefaultMarks != nil:
		return nonNegative(*part.DefaultMarks)
	default:
		return 1
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func allObjective(questions []model.Question) bool {
	for _, q := range questions {
		if !q.HasAnswerKey() {
			return false
		}
	}
	return true
}

func orderedQuestions(part model.Part) []model.Question {
	qs := make([]model.Question, len(part.Questions))
	copy(qs, part.Questions)
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].QuestionNumber < qs[j].QuestionNumber })
	return qs
}

func copyAnswers(a AnswerSet) map[int]string {
	out := make(map[int]string, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

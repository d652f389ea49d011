package grading

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lshigami/ieltsprep/internal/model"
)

// NormalizeAnswers turns the answer payload of one part into an AnswerSet.
//
// Clients send either a positional list, where index i answers the part's
// i-th question in question-number order, or an object keyed by question
// number. Null entries are treated as unanswered. Any other shape is rejected.
func NormalizeAnswers(part model.Part, raw any) (AnswerSet, error) {
	switch v := raw.(type) {
	case nil:
		return AnswerSet{}, nil
	case AnswerSet:
		return v, nil
	case map[int]string:
		return AnswerSet(v), nil
	case []string:
		return PositionalAnswers(part, v), nil
	case []any:
		list := make([]string, len(v))
		for i, item := range v {
			s, err := scalar(item)
			if err != nil {
				return nil, fmt.Errorf("answer %d: %w", i+1, err)
			}
			list[i] = s
		}
		return PositionalAnswers(part, list), nil
	case map[string]string:
		out := make(AnswerSet, len(v))
		for k, s := range v {
			n, err := questionNumber(k)
			if err != nil {
				return nil, err
			}
			out[n] = s
		}
		return out, nil
	case map[string]any:
		out := make(AnswerSet, len(v))
		for k, item := range v {
			n, err := questionNumber(k)
			if err != nil {
				return nil, err
			}
			s, err := scalar(item)
			if err != nil {
				return nil, fmt.Errorf("question %d: %w", n, err)
			}
			if item != nil {
				out[n] = s
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported answers shape %T", raw)
	}
}

// PositionalAnswers maps list[i] to the i-th question of part. Extra entries
// beyond the part's questions are ignored.
func PositionalAnswers(part model.Part, list []string) AnswerSet {
	questions := orderedQuestions(part)
	out := make(AnswerSet, len(list))
	for i, s := range list {
		if i >= len(questions) {
			break
		}
		out[questions[i].QuestionNumber] = s
	}
	return out
}

func questionNumber(key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("answer key %q is not a question number", key)
	}
	return n, nil
}

func scalar(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	default:
		return "", fmt.Errorf("unsupported answer value of type %T", v)
	}
}

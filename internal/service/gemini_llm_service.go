package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/ieltsprep/config"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// PartScoringRequest is everything the examiner model sees for one part.
type PartScoringRequest struct {
	TestType model.TestType
	Part     model.Part
	Answers  map[int]string
	MaxScore float64
}

type GeminiLLMService interface {
	// Available reports whether a client was configured.
	Available() bool
	ScorePart(ctx context.Context, req PartScoringRequest) (feedback string, score float64, err error)
}

type geminiLLMService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiLLMService(cfg *config.Config) (GeminiLLMService, error) {
	if cfg.Gemini.ApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiLLMService will be non-functional.")
		return &geminiLLMService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	gm := client.GenerativeModel(cfg.Gemini.Model)
	return &geminiLLMService{client: gm, cfg: cfg}, nil
}

func (s *geminiLLMService) Available() bool { return s.client != nil }

func fetchImageData(ctx context.Context, imageURL string) ([]byte, string, error) {
	if imageURL == "" {
		return nil, "", fmt.Errorf("image URL is empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid image URL %s: %w", imageURL, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image from URL %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch image (status %d) from URL %s", resp.StatusCode, imageURL)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data from URL %s: %w", imageURL, err)
	}

	var mimeType string
	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		parsedMime, _, parseErr := mime.ParseMediaType(contentType)
		if parseErr == nil && strings.HasPrefix(parsedMime, "image/") {
			mimeType = parsedMime
		}
	}
	if mimeType == "" {
		ext := filepath.Ext(imageURL)
		mimeType = mime.TypeByExtension(ext)
		if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
			log.Warn().Str("url", imageURL).Str("ext", ext).Msg("Could not determine valid MIME type from extension or Content-Type.")
			return imageData, "", fmt.Errorf("unsupported or undeterminable image MIME type for %s", imageURL)
		}
	}
	return imageData, mimeType, nil
}

// parseScoreAndFeedback extracts the "Score:" and "Feedback:" sections the
// prompt asks the model to produce.
func parseScoreAndFeedback(rawResponse string) (scoreStr string, feedbackStr string, err error) {
	scorePrefix := "Score:"
	feedbackPrefix := "Feedback:"

	scoreIndex := strings.Index(rawResponse, scorePrefix)
	feedbackIndex := strings.Index(rawResponse, feedbackPrefix)

	if scoreIndex == -1 {
		return "", rawResponse, fmt.Errorf("response does not contain 'Score:' prefix")
	}

	endOfScoreLine := strings.Index(rawResponse[scoreIndex:], "\n")
	if endOfScoreLine == -1 {
		scoreStr = strings.TrimSpace(rawResponse[scoreIndex+len(scorePrefix):])
	} else {
		scoreStr = strings.TrimSpace(rawResponse[scoreIndex+len(scorePrefix) : scoreIndex+endOfScoreLine])
	}

	switch {
	case feedbackIndex > scoreIndex:
		feedbackStr = strings.TrimSpace(rawResponse[feedbackIndex+len(feedbackPrefix):])
	case endOfScoreLine != -1 && len(rawResponse) > scoreIndex+endOfScoreLine+1:
		feedbackStr = strings.TrimSpace(rawResponse[scoreIndex+endOfScoreLine+1:])
	default:
		feedbackStr = "Feedback not found in the expected format after the score."
	}

	// "Score: 6.5 / 10" -> "6.5"
	if fields := strings.Fields(scoreStr); len(fields) > 0 {
		scoreStr = strings.TrimSuffix(fields[0], "/")
	}
	return scoreStr, feedbackStr, nil
}

// buildExaminerPrompt renders the text prompt for one Writing or Speaking part.
func buildExaminerPrompt(req PartScoringRequest) string {
	var b strings.Builder
	speaking := req.TestType == model.TestTypeSpeaking
	for _, q := range req.Part.Questions {
		if q.QuestionType == model.QuestionSpeakingPrompt {
			speaking = true
		}
	}

	if speaking {
		b.WriteString("You are an experienced IELTS Speaking examiner.\n")
		b.WriteString("Evaluate the candidate's transcribed responses below using the IELTS Speaking band descriptors:\n")
		b.WriteString("- Fluency and Coherence\n- Lexical Resource\n- Grammatical Range and Accuracy\n- Pronunciation (judge from the transcript where possible)\n\n")
	} else {
		b.WriteString("You are an experienced IELTS Writing examiner.\n")
		b.WriteString("Evaluate the candidate's response below using the IELTS Writing band descriptors:\n")
		b.WriteString("- Task Achievement / Task Response\n- Coherence and Cohesion\n- Lexical Resource\n- Grammatical Range and Accuracy\n\n")
	}

	fmt.Fprintf(&b, "Part %d: %s\n", req.Part.PartNumber, req.Part.Title)
	if req.Part.Instructions != "" {
		fmt.Fprintf(&b, "Instructions:\n%s\n", req.Part.Instructions)
	}
	if req.Part.ImageURL != nil && *req.Part.ImageURL != "" {
		b.WriteString("The candidate was shown the image provided above.\n")
	}
	b.WriteString("\n")

	questions := make([]model.Question, len(req.Part.Questions))
	copy(questions, req.Part.Questions)
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].QuestionNumber < questions[j].QuestionNumber })
	for _, q := range questions {
		fmt.Fprintf(&b, "Question %d:\n---\n%s\n---\n", q.QuestionNumber, q.Prompt)
		answer := strings.TrimSpace(req.Answers[q.QuestionNumber])
		if answer == "" {
			answer = "(no answer)"
		}
		fmt.Fprintf(&b, "Candidate's answer:\n---\n%s\n---\n\n", answer)
	}

	fmt.Fprintf(&b, `Please provide your evaluation in two distinct parts:
1. Score: one number for the whole part, from 0 to %s.
2. Feedback: strong points, specific errors with a corrected example for each, and advice for reaching the next band.

Format your response strictly as:
Score: [Your Numerical Score Here]
Feedback:
[Your Detailed Feedback Here]
`, strconv.FormatFloat(req.MaxScore, 'f', -1, 64))
	return b.String()
}

func (s *geminiLLMService) ScorePart(ctx context.Context, req PartScoringRequest) (string, float64, error) {
	if s.client == nil {
		return "", 0, fmt.Errorf("gemini client not initialized")
	}

	var parts []genai.Part
	if req.Part.ImageURL != nil && *req.Part.ImageURL != "" {
		imageData, mimeType, err := fetchImageData(ctx, *req.Part.ImageURL)
		if err != nil {
			// Task 1 can still be judged on language alone.
			log.Warn().Err(err).Str("imageURL", *req.Part.ImageURL).Msg("Failed to fetch part image, scoring without it")
		} else {
			parts = append(parts, genai.ImageData(strings.TrimPrefix(mimeType, "image/"), imageData))
		}
	}
	parts = append(parts, genai.Text(buildExaminerPrompt(req)))

	resp, err := s.client.GenerateContent(ctx, parts...)
	if err != nil {
		log.Error().Err(err).Int("partNumber", req.Part.PartNumber).Msg("Gemini API error during scoring")
		return "", 0, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", 0, fmt.Errorf("gemini returned no content")
	}

	var fullResponseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullResponseText.WriteString(string(txt))
		}
	}
	if fullResponseText.Len() == 0 {
		return "", 0, fmt.Errorf("gemini returned no text content")
	}

	return scoreFromResponse(fullResponseText.String(), req.MaxScore)
}

// scoreFromResponse parses a model reply and clamps the score to [0, maxScore].
func scoreFromResponse(raw string, maxScore float64) (string, float64, error) {
	scoreStr, feedbackStr, err := parseScoreAndFeedback(raw)
	if err != nil {
		log.Warn().Err(err).Str("rawResponse", raw).Msg("Failed to parse score and feedback from Gemini response")
		return "", 0, err
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(scoreStr), 64)
	if err != nil || math.IsNaN(score) {
		log.Warn().Str("scoreStr", scoreStr).Msg("Failed to parse score string to float")
		return feedbackStr, 0, fmt.Errorf("could not parse score value %q from AI response", scoreStr)
	}

	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	return strings.TrimSpace(feedbackStr), score, nil
}

package gesture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const prompt = "Identify the primary hand gesture in this frame. Choose ONLY ONE from this list: " +
	"'heart', 'peace', 'fist', 'open', 'point', 'thumbs up'. If no clear gesture, return 'none'. " +
	"Respond with a JSON object containing 'gesture' (string) and 'confidence' (number 0-1)."

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"gesture":    {Type: genai.TypeString},
		"confidence": {Type: genai.TypeNumber},
	},
	Required: []string{"gesture", "confidence"},
}

// generator is the slice of the GenAI client Gemini needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini recognises gestures with a multimodal Gemini model.
type Gemini struct {
	models generator
	model  string
	logger *log.Logger
}

// ErrNoAPIKey is returned by NewGemini when no key is configured.
var ErrNoAPIKey = errors.New("gemini api key not set")

// NewGemini creates a client for the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string, logger *log.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGemini(client.Models, model, logger), nil
}

func newGemini(models generator, model string, logger *log.Logger) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Gemini{models: models, model: model, logger: logger}
}

// Recognize sends the frame to the model. Any failure is logged at debug
// level and reported as the neutral result.
func (g *Gemini) Recognize(ctx context.Context, jpeg []byte) Result {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(jpeg, "image/jpeg"),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		g.logger.Debug("gesture request failed", "err", err)
		return Neutral()
	}
	if resp == nil {
		g.logger.Debug("gesture request returned no response")
		return Neutral()
	}

	res, err := decodeResult(resp.Text())
	if err != nil {
		g.logger.Debug("gesture response unusable", "err", err)
		return Neutral()
	}
	g.logger.Debug("gesture recognised", "gesture", res.Gesture, "confidence", res.Confidence)
	return res
}

// decodeResult parses the model's JSON answer.
func decodeResult(text string) (Result, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, errors.New("empty response")
	}

	var raw struct {
		Gesture    *string  `json:"gesture"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if raw.Gesture == nil || raw.Confidence == nil {
		return Result{}, errors.New("response missing gesture or confidence")
	}

	return Result{
		Gesture:    Parse(*raw.Gesture),
		Confidence: min(max(*raw.Confidence, 0), 1),
	}, nil
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"companion-chat/internal/domain"
)

const (
	DefaultHFChatModelURL    = "https://api-inference.huggingface.co/models/HuggingFaceH4/zephyr-7b-beta"
	DefaultHFEmotionModelURL = "https://api-inference.huggingface.co/models/j-hartmann/emotion-english-distilroberta-base"
)

// HFClient implementa LLMClient contra la Inference API de Hugging Face (text-generation).
type HFClient struct {
	modelURL string
	apiKey   string
	client   *http.Client
	logger   *zap.Logger
}

// NewHFClient construye un cliente de generacion; modelURL vacio usa zephyr-7b-beta.
func NewHFClient(modelURL, apiKey string, logger *zap.Logger) *HFClient {
	if modelURL == "" {
		modelURL = DefaultHFChatModelURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HFClient{
		modelURL: modelURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
	}
}

func (c *HFClient) Generate(ctx context.Context, prompt Prompt, params GenerationParams) (string, error) {
	reqBody := hfGenerationRequest{
		Inputs: prompt.Render(),
		Parameters: hfGenerationParams{
			MaxNewTokens:      params.MaxNewTokens,
			Temperature:       params.Temperature,
			TopP:              params.TopP,
			DoSample:          params.DoSample,
			RepetitionPenalty: params.RepetitionPenalty,
		},
	}

	respBody, err := postJSON(ctx, c.client, c.modelURL, c.apiKey, reqBody)
	if err != nil {
		c.logger.Warn("hf generation request failed", zap.Error(err))
		return "", err
	}

	text, err := parseHFGeneratedText(respBody)
	if err != nil {
		return "", err
	}
	return text, nil
}

// parseHFGeneratedText acepta tanto [{"generated_text": ...}] como {"generated_text": ...}.
func parseHFGeneratedText(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", ErrEmptyResponse
	}

	var item hfGenerated
	if trimmed[0] == '[' {
		var list []hfGenerated
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return "", fmt.Errorf("unmarshal response: %w", err)
		}
		if len(list) == 0 {
			return "", ErrEmptyResponse
		}
		item = list[0]
	} else if err := json.Unmarshal(trimmed, &item); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if item.Error != "" {
		return "", fmt.Errorf("hf api error: %s", item.Error)
	}
	if strings.TrimSpace(item.GeneratedText) == "" {
		return "", ErrEmptyResponse
	}
	return item.GeneratedText, nil
}

// HFEmotionClassifier implementa EmotionClassifier con un modelo de clasificacion de texto.
type HFEmotionClassifier struct {
	modelURL string
	apiKey   string
	client   *http.Client
}

func NewHFEmotionClassifier(modelURL, apiKey string) *HFEmotionClassifier {
	if modelURL == "" {
		modelURL = DefaultHFEmotionModelURL
	}
	return &HFEmotionClassifier{
		modelURL: modelURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HFEmotionClassifier) Classify(ctx context.Context, text string) (domain.Emotion, error) {
	respBody, err := postJSON(ctx, c.client, c.modelURL, c.apiKey, map[string]string{"inputs": text})
	if err != nil {
		return domain.EmotionNeutral, err
	}
	return parseHFEmotion(respBody)
}

// parseHFEmotion toma la etiqueta de mayor score; acepta [[...]] y [...].
func parseHFEmotion(body []byte) (domain.Emotion, error) {
	var nested [][]hfLabelScore
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		return topEmotion(nested[0])
	}
	var flat []hfLabelScore
	if err := json.Unmarshal(body, &flat); err != nil {
		return domain.EmotionNeutral, fmt.Errorf("unmarshal emotion response: %w", err)
	}
	return topEmotion(flat)
}

func topEmotion(labels []hfLabelScore) (domain.Emotion, error) {
	if len(labels) == 0 {
		return domain.EmotionNeutral, ErrEmptyResponse
	}
	best := labels[0]
	for _, l := range labels[1:] {
		if l.Score > best.Score {
			best = l
		}
	}
	return domain.ParseEmotion(best.Label), nil
}

func postJSON(ctx context.Context, client *http.Client, url, apiKey string, payload any) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("hf http error: status=%d", resp.StatusCode)
	}
	return respBody, nil
}

type hfGenerationRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters hfGenerationParams `json:"parameters"`
}

type hfGenerationParams struct {
	MaxNewTokens      int     `json:"max_new_tokens"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	DoSample          bool    `json:"do_sample"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

type hfGenerated struct {
	GeneratedText string `json:"generated_text"`
	Error         string `json:"error,omitempty"`
}

type hfLabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

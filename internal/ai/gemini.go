package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ModelClient абстрагирует вызов текстовой модели: системная инструкция плюс
// запрос, на выходе — JSON-текст. Позволяет подменять модель в тестах.
type ModelClient interface {
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
}

// modelTemperature — фиксированный уровень «креативности» модели
const modelTemperature = 0.7

// GeminiClient реализует ModelClient поверх Google Gemini
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient создает клиент Gemini. Клиент процесс-глобальный:
// создается один раз при старте и переиспользуется всеми запросами.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// GenerateJSON вызывает модель и возвращает сырой JSON-текст ответа
func (c *GeminiClient) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(modelTemperature)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text parts")
	}
	return sb.String(), nil
}

// Close освобождает ресурсы клиента
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

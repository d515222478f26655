package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/yourusername/challenge-api/internal/domain/entity"
)

// GeneratedChallenge — результат генерации: вопрос, четыре варианта,
// индекс правильного ответа и объяснение.
type GeneratedChallenge struct {
	Title           string   `json:"title"`
	Options         []string `json:"options"`
	CorrectAnswerID int      `json:"correct_answer_id"`
	Explanation     string   `json:"explanation"`
}

// rawChallenge используется для проверки присутствия обязательных полей:
// указатели отличают отсутствующее поле от нулевого значения.
type rawChallenge struct {
	Title           *string   `json:"title"`
	Options         *[]string `json:"options"`
	CorrectAnswerID *int      `json:"correct_answer_id"`
	Explanation     *string   `json:"explanation"`
}

// FallbackChallenge возвращает заведомо корректный легкий вопрос.
// Используется при любом сбое генерации, чтобы эндпоинт всегда
// отдавал валидный челлендж.
func FallbackChallenge() *GeneratedChallenge {
	return &GeneratedChallenge{
		Title: "Which is the correct method to add an element to a list in Python?",
		Options: []string{
			"my_list.append(5)",
			"my_list.add(5)",
			"my_list.push(5)",
			"my_list.insert(5)",
		},
		CorrectAnswerID: 0,
		Explanation:     "The correct method to add an element to a list in Python is 'append'. The other methods do not exist for lists.",
	}
}

// Generator генерирует челленджи через внешнюю текстовую модель
type Generator struct {
	client ModelClient
}

// NewGenerator создает новый генератор челленджей
func NewGenerator(client ModelClient) *Generator {
	return &Generator{client: client}
}

// Generate генерирует челлендж заданной сложности. Никогда не возвращает
// ошибку: любой сбой модели или невалидный ответ логируется и заменяется
// статическим fallback-вопросом.
func (g *Generator) Generate(ctx context.Context, difficulty string) *GeneratedChallenge {
	text, err := g.client.GenerateJSON(ctx, systemPrompt, userPrompt(difficulty))
	if err != nil {
		log.Printf("[Generator] Ошибка вызова модели (difficulty=%s): %v. Возвращаем fallback.", difficulty, err)
		return FallbackChallenge()
	}

	challenge, err := parseChallenge(text)
	if err != nil {
		log.Printf("[Generator] Невалидный ответ модели (difficulty=%s): %v. Возвращаем fallback.", difficulty, err)
		return FallbackChallenge()
	}
	return challenge
}

// parseChallenge разбирает JSON-ответ модели и проверяет наличие
// всех четырех обязательных полей
func parseChallenge(text string) (*GeneratedChallenge, error) {
	var raw rawChallenge
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}

	switch {
	case raw.Title == nil:
		return nil, fmt.Errorf("missing required field: title")
	case raw.Options == nil:
		return nil, fmt.Errorf("missing required field: options")
	case raw.CorrectAnswerID == nil:
		return nil, fmt.Errorf("missing required field: correct_answer_id")
	case raw.Explanation == nil:
		return nil, fmt.Errorf("missing required field: explanation")
	}

	// Храним только вопросы с ровно четырьмя вариантами и корректным индексом
	if len(*raw.Options) != entity.OptionsCount {
		return nil, fmt.Errorf("expected %d options, got %d", entity.OptionsCount, len(*raw.Options))
	}
	if id := *raw.CorrectAnswerID; id < 0 || id >= entity.OptionsCount {
		return nil, fmt.Errorf("correct_answer_id %d is out of range", id)
	}

	return &GeneratedChallenge{
		Title:           *raw.Title,
		Options:         *raw.Options,
		CorrectAnswerID: *raw.CorrectAnswerID,
		Explanation:     *raw.Explanation,
	}, nil
}

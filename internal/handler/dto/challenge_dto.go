package dto

import (
	"time"

	"github.com/yourusername/challenge-api/internal/domain/entity"
)

// ChallengeResponse представляет сгенерированный челлендж в формате для клиента
type ChallengeResponse struct {
	ID              uint      `json:"id"`
	Difficulty      string    `json:"difficulty"`
	Title           string    `json:"title"`
	Options         []string  `json:"options"`
	CorrectAnswerID int       `json:"correct_answer_id"`
	Explanation     string    `json:"explanation"`
	Timestamp       time.Time `json:"timestamp"`
}

// HistoryItem представляет челлендж в списке истории
type HistoryItem struct {
	ID              uint      `json:"id"`
	Difficulty      string    `json:"difficulty"`
	CreatedBy       string    `json:"created_by"`
	Title           string    `json:"title"`
	Options         []string  `json:"options"`
	CorrectAnswerID int       `json:"correct_answer_id"`
	Explanation     string    `json:"explanation"`
	DateCreated     time.Time `json:"date_created"`
}

// HistoryResponse представляет историю челленджей пользователя
type HistoryResponse struct {
	Challenges []HistoryItem `json:"challenges"`
}

// QuotaResponse представляет квоту пользователя
type QuotaResponse struct {
	UserID         string    `json:"user_id"`
	QuotaRemaining int       `json:"quota_remaining"`
	LastResetDate  time.Time `json:"last_reset_date"`
}

// NewChallengeResponse создает DTO для сгенерированного челленджа
func NewChallengeResponse(c *entity.Challenge) *ChallengeResponse {
	return &ChallengeResponse{
		ID:              c.ID,
		Difficulty:      c.Difficulty,
		Title:           c.Title,
		Options:         []string(c.Options),
		CorrectAnswerID: c.CorrectAnswerID,
		Explanation:     c.Explanation,
		Timestamp:       c.DateCreated,
	}
}

// NewHistoryResponse создает DTO для истории челленджей
func NewHistoryResponse(challenges []entity.Challenge) *HistoryResponse {
	items := make([]HistoryItem, 0, len(challenges))
	for i := range challenges {
		c := &challenges[i]
		items = append(items, HistoryItem{
			ID:              c.ID,
			Difficulty:      c.Difficulty,
			CreatedBy:       c.CreatedBy,
			Title:           c.Title,
			Options:         []string(c.Options),
			CorrectAnswerID: c.CorrectAnswerID,
			Explanation:     c.Explanation,
			DateCreated:     c.DateCreated,
		})
	}
	return &HistoryResponse{Challenges: items}
}

// NewQuotaResponse создает DTO для квоты
func NewQuotaResponse(q *entity.ChallengeQuota) *QuotaResponse {
	return &QuotaResponse{
		UserID:         q.UserID,
		QuotaRemaining: q.QuotaRemaining,
		LastResetDate:  q.LastResetDate,
	}
}

package repository

import (
	"github.com/yourusername/challenge-api/internal/domain/entity"
)

// ChallengeRepository определяет методы для работы с челленджами
type ChallengeRepository interface {
	Create(challenge *entity.Challenge) error
	// ListByUser возвращает все челленджи пользователя,
	// отсортированные от новых к старым
	ListByUser(userID string) ([]entity.Challenge, error)
}

package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/challenge-api/internal/domain/entity"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// ChallengeRepo реализует repository.ChallengeRepository
type ChallengeRepo struct {
	db *gorm.DB
}

// NewChallengeRepo создает новый репозиторий челленджей
func NewChallengeRepo(db *gorm.DB) *ChallengeRepo {
	return &ChallengeRepo{db: db}
}

// Create создает новую запись челленджа
func (r *ChallengeRepo) Create(challenge *entity.Challenge) error {
	if err := r.db.Create(challenge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// ListByUser возвращает все челленджи, созданные пользователем.
// Порядок — от новых к старым, для детерминированной истории.
func (r *ChallengeRepo) ListByUser(userID string) ([]entity.Challenge, error) {
	var challenges []entity.Challenge
	err := r.db.
		Where("created_by = ?", userID).
		Order("date_created DESC, id DESC").
		Find(&challenges).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return challenges, nil
}

package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/challenge-api/internal/domain/entity"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// QuotaRepo реализует repository.QuotaRepository
type QuotaRepo struct {
	db *gorm.DB
}

// NewQuotaRepo создает новый репозиторий квот
func NewQuotaRepo(db *gorm.DB) *QuotaRepo {
	return &QuotaRepo{db: db}
}

// GetByUserID возвращает квоту пользователя
func (r *QuotaRepo) GetByUserID(userID string) (*entity.ChallengeQuota, error) {
	var quota entity.ChallengeQuota
	err := r.db.Where("user_id = ?", userID).First(&quota).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return &quota, nil
}

// Create создает новую квоту с дефолтным остатком
func (r *QuotaRepo) Create(userID string) (*entity.ChallengeQuota, error) {
	quota := &entity.ChallengeQuota{
		UserID:         userID,
		QuotaRemaining: entity.DefaultQuota,
		LastResetDate:  time.Now(),
	}
	if err := r.db.Create(quota).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: quota for user %s already exists", apperrors.ErrConflict, userID)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return quota, nil
}

// ResetIfDue восстанавливает квоту, если с последнего сброса прошло
// более 24 часов. Вызывается перед каждой проверкой остатка, чтобы квоты
// пополнялись без отдельной фоновой задачи.
func (r *QuotaRepo) ResetIfDue(quota *entity.ChallengeQuota) (*entity.ChallengeQuota, error) {
	now := time.Now()
	if !quota.IsResetDue(now) {
		return quota, nil
	}

	quota.QuotaRemaining = entity.DefaultQuota
	quota.LastResetDate = now
	if err := r.db.Save(quota).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return quota, nil
}

// DecrementIfPositive атомарно уменьшает остаток на 1 одним условным UPDATE.
// Условие quota_remaining > 0 выполняется внутри БД, так что две
// конкурирующие генерации не могут увести остаток в минус.
func (r *QuotaRepo) DecrementIfPositive(userID string) error {
	result := r.db.Model(&entity.ChallengeQuota{}).
		Where("user_id = ? AND quota_remaining > 0", userID).
		UpdateColumn("quota_remaining", gorm.Expr("quota_remaining - 1"))
	if result.Error != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrQuotaExceeded
	}
	return nil
}

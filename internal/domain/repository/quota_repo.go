package repository

import (
	"github.com/yourusername/challenge-api/internal/domain/entity"
)

// QuotaRepository определяет методы для работы с квотами генераций
type QuotaRepository interface {
	// GetByUserID возвращает квоту пользователя или apperrors.ErrNotFound
	GetByUserID(userID string) (*entity.ChallengeQuota, error)

	// Create создает квоту с дефолтным остатком.
	// Возвращает apperrors.ErrConflict, если запись уже существует.
	Create(userID string) (*entity.ChallengeQuota, error)

	// ResetIfDue восстанавливает остаток до дефолтного, если с последнего
	// сброса прошло более 24 часов. Иначе возвращает запись без изменений.
	ResetIfDue(quota *entity.ChallengeQuota) (*entity.ChallengeQuota, error)

	// DecrementIfPositive атомарно уменьшает остаток на 1 одним условным
	// UPDATE. Возвращает apperrors.ErrQuotaExceeded, если остаток уже 0:
	// две конкурирующие генерации не могут увести квоту в минус.
	DecrementIfPositive(userID string) error
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/challenge-api/internal/ai"
	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// ChallengeGenerator абстрагирует генерацию вопроса.
// Реализация (ai.Generator) по контракту никогда не возвращает ошибку.
type ChallengeGenerator interface {
	Generate(ctx context.Context, difficulty string) *ai.GeneratedChallenge
}

// ChallengeService предоставляет методы для работы с челленджами и квотами
type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	quotaRepo     repository.QuotaRepository
	generator     ChallengeGenerator
}

// NewChallengeService создает новый сервис челленджей
func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	quotaRepo repository.QuotaRepository,
	generator ChallengeGenerator,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		quotaRepo:     quotaRepo,
		generator:     generator,
	}
}

// GenerateChallenge генерирует и сохраняет челлендж для пользователя,
// списывая одну единицу квоты. Квота создается лениво при первом обращении
// и автоматически восстанавливается, если прошло более 24 часов.
func (s *ChallengeService) GenerateChallenge(ctx context.Context, userID, difficulty string) (*entity.Challenge, error) {
	quota, err := s.quotaRepo.GetByUserID(userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		quota, err = s.quotaRepo.Create(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to create quota: %w", err)
		}
	}

	quota, err = s.quotaRepo.ResetIfDue(quota)
	if err != nil {
		return nil, fmt.Errorf("failed to reset quota: %w", err)
	}

	// Ранняя проверка, чтобы не платить за вызов модели при пустой квоте.
	// Гарантию от гонки дает атомарный декремент ниже.
	if quota.IsExhausted() {
		return nil, apperrors.ErrQuotaExceeded
	}

	generated := s.generator.Generate(ctx, difficulty)

	challenge := &entity.Challenge{
		Difficulty:      difficulty,
		CreatedBy:       userID,
		Title:           generated.Title,
		Options:         entity.StringArray(generated.Options),
		CorrectAnswerID: generated.CorrectAnswerID,
		Explanation:     generated.Explanation,
	}
	if err := s.challengeRepo.Create(challenge); err != nil {
		return nil, fmt.Errorf("failed to persist challenge: %w", err)
	}

	if err := s.quotaRepo.DecrementIfPositive(userID); err != nil {
		return nil, err
	}

	return challenge, nil
}

// GetHistory возвращает все челленджи пользователя
func (s *ChallengeService) GetHistory(userID string) ([]entity.Challenge, error) {
	return s.challengeRepo.ListByUser(userID)
}

// GetQuota возвращает квоту пользователя после проверки сброса.
// Если записи нет, возвращается нулевая квота без сохранения в БД.
func (s *ChallengeService) GetQuota(userID string) (*entity.ChallengeQuota, error) {
	quota, err := s.quotaRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &entity.ChallengeQuota{
				UserID:         userID,
				QuotaRemaining: 0,
				LastResetDate:  time.Now(),
			}, nil
		}
		return nil, err
	}
	return s.quotaRepo.ResetIfDue(quota)
}

// RegisterUser создает квоту для нового пользователя.
// Вызывается из вебхука user.created; повторная доставка того же события
// завершится ErrConflict (доставка считается at-most-once).
func (s *ChallengeService) RegisterUser(userID string) (*entity.ChallengeQuota, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is empty", apperrors.ErrValidation)
	}

	quota, err := s.quotaRepo.Create(userID)
	if err != nil {
		return nil, err
	}
	log.Printf("[ChallengeService] Создана квота для нового пользователя %s", userID)
	return quota, nil
}

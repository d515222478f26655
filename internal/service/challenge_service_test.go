package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/challenge-api/internal/ai"
	"github.com/yourusername/challenge-api/internal/domain/entity"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// ============================================================================
// Моки для ChallengeService
// ============================================================================

// MockChallengeRepository реализует repository.ChallengeRepository
type MockChallengeRepository struct {
	mock.Mock
}

func (m *MockChallengeRepository) Create(challenge *entity.Challenge) error {
	args := m.Called(challenge)
	return args.Error(0)
}

func (m *MockChallengeRepository) ListByUser(userID string) ([]entity.Challenge, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Challenge), args.Error(1)
}

// MockQuotaRepository реализует repository.QuotaRepository
type MockQuotaRepository struct {
	mock.Mock
}

func (m *MockQuotaRepository) GetByUserID(userID string) (*entity.ChallengeQuota, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChallengeQuota), args.Error(1)
}

func (m *MockQuotaRepository) Create(userID string) (*entity.ChallengeQuota, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChallengeQuota), args.Error(1)
}

func (m *MockQuotaRepository) ResetIfDue(quota *entity.ChallengeQuota) (*entity.ChallengeQuota, error) {
	args := m.Called(quota)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChallengeQuota), args.Error(1)
}

func (m *MockQuotaRepository) DecrementIfPositive(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockGenerator реализует ChallengeGenerator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, difficulty string) *ai.GeneratedChallenge {
	args := m.Called(ctx, difficulty)
	return args.Get(0).(*ai.GeneratedChallenge)
}

func testGenerated() *ai.GeneratedChallenge {
	return &ai.GeneratedChallenge{
		Title:           "What is a slice in Go?",
		Options:         []string{"A view into an array", "A linked list", "A hash map", "A channel"},
		CorrectAnswerID: 0,
		Explanation:     "A slice is a descriptor over a backing array.",
	}
}

func testQuota(remaining int) *entity.ChallengeQuota {
	return &entity.ChallengeQuota{
		ID:             1,
		UserID:         "user_1",
		QuotaRemaining: remaining,
		LastResetDate:  time.Now(),
	}
}

// ============================================================================
// GenerateChallenge
// ============================================================================

func TestGenerateChallenge_Success(t *testing.T) {
	// Arrange
	challengeRepo := new(MockChallengeRepository)
	quotaRepo := new(MockQuotaRepository)
	generator := new(MockGenerator)

	quota := testQuota(5)
	quotaRepo.On("GetByUserID", "user_1").Return(quota, nil)
	quotaRepo.On("ResetIfDue", quota).Return(quota, nil)
	generator.On("Generate", mock.Anything, "medium").Return(testGenerated())
	challengeRepo.On("Create", mock.AnythingOfType("*entity.Challenge")).Return(nil)
	quotaRepo.On("DecrementIfPositive", "user_1").Return(nil)

	svc := NewChallengeService(challengeRepo, quotaRepo, generator)

	// Act
	challenge, err := svc.GenerateChallenge(context.Background(), "user_1", "medium")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user_1", challenge.CreatedBy)
	assert.Equal(t, "medium", challenge.Difficulty)
	assert.Len(t, challenge.Options, 4)
	assert.Equal(t, 0, challenge.CorrectAnswerID)

	challengeRepo.AssertExpectations(t)
	quotaRepo.AssertExpectations(t)
	generator.AssertExpectations(t)
}

func TestGenerateChallenge_CreatesQuotaLazily(t *testing.T) {
	// Arrange: квоты еще нет — создается при первом запросе
	challengeRepo := new(MockChallengeRepository)
	quotaRepo := new(MockQuotaRepository)
	generator := new(MockGenerator)

	created := testQuota(entity.DefaultQuota)
	quotaRepo.On("GetByUserID", "user_1").Return(nil, apperrors.ErrNotFound)
	quotaRepo.On("Create", "user_1").Return(created, nil)
	quotaRepo.On("ResetIfDue", created).Return(created, nil)
	generator.On("Generate", mock.Anything, "easy").Return(testGenerated())
	challengeRepo.On("Create", mock.AnythingOfType("*entity.Challenge")).Return(nil)
	quotaRepo.On("DecrementIfPositive", "user_1").Return(nil)

	svc := NewChallengeService(challengeRepo, quotaRepo, generator)

	// Act
	_, err := svc.GenerateChallenge(context.Background(), "user_1", "easy")

	// Assert
	require.NoError(t, err)
	quotaRepo.AssertExpectations(t)
}

func TestGenerateChallenge_QuotaExhausted(t *testing.T) {
	// Arrange: остаток 0 — отказ до вызова модели
	challengeRepo := new(MockChallengeRepository)
	quotaRepo := new(MockQuotaRepository)
	generator := new(MockGenerator)

	quota := testQuota(0)
	quotaRepo.On("GetByUserID", "user_1").Return(quota, nil)
	quotaRepo.On("ResetIfDue", quota).Return(quota, nil)

	svc := NewChallengeService(challengeRepo, quotaRepo, generator)

	// Act
	_, err := svc.GenerateChallenge(context.Background(), "user_1", "hard")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	challengeRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestGenerateChallenge_LastUnitThenExceeded(t *testing.T) {
	// Пользователь с остатком 1 генерирует ровно один раз,
	// следующая попытка получает quota exceeded
	challengeRepo := new(MockChallengeRepository)
	quotaRepo := new(MockQuotaRepository)
	generator := new(MockGenerator)

	first := testQuota(1)
	quotaRepo.On("GetByUserID", "user_1").Return(first, nil).Once()
	quotaRepo.On("ResetIfDue", first).Return(first, nil).Once()
	generator.On("Generate", mock.Anything, "easy").Return(testGenerated()).Once()
	challengeRepo.On("Create", mock.AnythingOfType("*entity.Challenge")).Return(nil).Once()
	quotaRepo.On("DecrementIfPositive", "user_1").Return(nil).Once()

	svc := NewChallengeService(challengeRepo, quotaRepo, generator)

	_, err := svc.GenerateChallenge(context.Background(), "user_1", "easy")
	require.NoError(t, err)

	// Вторая попытка: остаток уже 0
	second := testQuota(0)
	quotaRepo.On("GetByUserID", "user_1").Return(second, nil).Once()
	quotaRepo.On("ResetIfDue", second).Return(second, nil).Once()

	_, err = svc.GenerateChallenge(context.Background(), "user_1", "easy")
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
}

func TestGenerateChallenge_DecrementRace(t *testing.T) {
	// Конкурирующий запрос успел списать последнюю единицу между
	// проверкой и декрементом: атомарный UPDATE возвращает quota exceeded
	challengeRepo := new(MockChallengeRepository)
	quotaRepo := new(MockQuotaRepository)
	generator := new(MockGenerator)

	quota := testQuota(1)
	quotaRepo.On("GetByUserID", "user_1").Return(quota, nil)
	quotaRepo.On("ResetIfDue", quota).Return(quota, nil)
	generator.On("Generate", mock.Anything, "easy").Return(testGenerated())
	challengeRepo.On("Create", mock.AnythingOfType("*entity.Challenge")).Return(nil)
	quotaRepo.On("DecrementIfPositive", "user_1").Return(apperrors.ErrQuotaExceeded)

	svc := NewChallengeService(challengeRepo, quotaRepo, generator)

	_, err := svc.GenerateChallenge(context.Background(), "user_1", "easy")
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
}

func TestGenerateChallenge_StorageError(t *testing.T) {
	challengeRepo := new(MockChallengeRepository)
	quotaRepo := new(MockQuotaRepository)
	generator := new(MockGenerator)

	quota := testQuota(5)
	quotaRepo.On("GetByUserID", "user_1").Return(quota, nil)
	quotaRepo.On("ResetIfDue", quota).Return(quota, nil)
	generator.On("Generate", mock.Anything, "easy").Return(testGenerated())
	challengeRepo.On("Create", mock.AnythingOfType("*entity.Challenge")).Return(apperrors.ErrStorage)

	svc := NewChallengeService(challengeRepo, quotaRepo, generator)

	_, err := svc.GenerateChallenge(context.Background(), "user_1", "easy")
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	quotaRepo.AssertNotCalled(t, "DecrementIfPositive", mock.Anything)
}

// ============================================================================
// GetQuota / GetHistory / RegisterUser
// ============================================================================

func TestGetQuota_SynthesizesZeroQuota(t *testing.T) {
	// Записи нет: возвращается нулевая квота, ничего не сохраняется
	challengeRepo := new(MockChallengeRepository)
	quotaRepo := new(MockQuotaRepository)

	quotaRepo.On("GetByUserID", "user_9").Return(nil, apperrors.ErrNotFound)

	svc := NewChallengeService(challengeRepo, quotaRepo, new(MockGenerator))

	quota, err := svc.GetQuota("user_9")
	require.NoError(t, err)
	assert.Equal(t, "user_9", quota.UserID)
	assert.Equal(t, 0, quota.QuotaRemaining)
	assert.WithinDuration(t, time.Now(), quota.LastResetDate, 5*time.Second)

	quotaRepo.AssertNotCalled(t, "Create", mock.Anything)
	quotaRepo.AssertNotCalled(t, "ResetIfDue", mock.Anything)
}

func TestGetQuota_ExistingQuotaGoesThroughReset(t *testing.T) {
	challengeRepo := new(MockChallengeRepository)
	quotaRepo := new(MockQuotaRepository)

	stale := testQuota(3)
	refreshed := testQuota(entity.DefaultQuota)
	quotaRepo.On("GetByUserID", "user_1").Return(stale, nil)
	quotaRepo.On("ResetIfDue", stale).Return(refreshed, nil)

	svc := NewChallengeService(challengeRepo, quotaRepo, new(MockGenerator))

	quota, err := svc.GetQuota("user_1")
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultQuota, quota.QuotaRemaining)
}

func TestGetHistory(t *testing.T) {
	challengeRepo := new(MockChallengeRepository)
	quotaRepo := new(MockQuotaRepository)

	expected := []entity.Challenge{
		{ID: 2, CreatedBy: "user_1", Title: "newer"},
		{ID: 1, CreatedBy: "user_1", Title: "older"},
	}
	challengeRepo.On("ListByUser", "user_1").Return(expected, nil)

	svc := NewChallengeService(challengeRepo, quotaRepo, new(MockGenerator))

	challenges, err := svc.GetHistory("user_1")
	require.NoError(t, err)
	assert.Equal(t, expected, challenges)
}

func TestRegisterUser_Success(t *testing.T) {
	challengeRepo := new(MockChallengeRepository)
	quotaRepo := new(MockQuotaRepository)

	created := testQuota(entity.DefaultQuota)
	quotaRepo.On("Create", "user_new").Return(created, nil)

	svc := NewChallengeService(challengeRepo, quotaRepo, new(MockGenerator))

	quota, err := svc.RegisterUser("user_new")
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultQuota, quota.QuotaRemaining)
}

func TestRegisterUser_EmptyID(t *testing.T) {
	svc := NewChallengeService(new(MockChallengeRepository), new(MockQuotaRepository), new(MockGenerator))

	_, err := svc.RegisterUser("")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRegisterUser_DuplicateDelivery(t *testing.T) {
	// Повторная доставка вебхука: insert-only, вторая запись не создается
	quotaRepo := new(MockQuotaRepository)
	quotaRepo.On("Create", "user_new").Return(nil, apperrors.ErrConflict)

	svc := NewChallengeService(new(MockChallengeRepository), quotaRepo, new(MockGenerator))

	_, err := svc.RegisterUser("user_new")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

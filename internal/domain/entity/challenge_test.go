package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallenge_IsValidAnswerID(t *testing.T) {
	// Arrange
	challenge := &Challenge{
		Options: StringArray{"A", "B", "C", "D"},
	}

	// Act & Assert: валидные индексы
	for id := 0; id < 4; id++ {
		challenge.CorrectAnswerID = id
		assert.True(t, challenge.IsValidAnswerID(), "Индекс %d должен быть валидным", id)
	}

	// Assert: невалидные индексы
	challenge.CorrectAnswerID = -1
	assert.False(t, challenge.IsValidAnswerID(), "Отрицательный индекс должен быть невалидным")
	challenge.CorrectAnswerID = 4
	assert.False(t, challenge.IsValidAnswerID(), "Индекс вне диапазона должен быть невалидным")
}

func TestStringArray_RoundTrip(t *testing.T) {
	// Arrange
	original := StringArray{"x++", "x--", "++x", "--x"}

	// Act: сериализация в JSONB и обратно
	value, err := original.Value()
	require.NoError(t, err)

	var restored StringArray
	err = restored.Scan(value)
	require.NoError(t, err)

	// Assert: порядок и содержимое сохранены
	require.Len(t, restored, 4)
	assert.Equal(t, original, restored)
}

func TestStringArray_ScanNilAndEmpty(t *testing.T) {
	var arr StringArray
	require.NoError(t, arr.Scan(nil))
	assert.Empty(t, arr)

	require.NoError(t, arr.Scan([]byte{}))
	assert.Empty(t, arr)
}

func TestStringArray_ValueEmpty(t *testing.T) {
	// Пустой массив пишется как "[]", а не NULL
	var arr StringArray
	value, err := arr.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}

func TestChallengeQuota_IsResetDue(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		lastReset time.Time
		want      bool
	}{
		{"только что сброшена", now, false},
		{"ровно 24 часа назад", now.Add(-24 * time.Hour), false},
		{"чуть больше 24 часов", now.Add(-24*time.Hour - time.Second), true},
		{"двое суток назад", now.Add(-48 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quota := &ChallengeQuota{UserID: "user_1", LastResetDate: tt.lastReset}
			assert.Equal(t, tt.want, quota.IsResetDue(now))
		})
	}
}

func TestChallengeQuota_IsExhausted(t *testing.T) {
	quota := &ChallengeQuota{QuotaRemaining: 1}
	assert.False(t, quota.IsExhausted())

	quota.QuotaRemaining = 0
	assert.True(t, quota.IsExhausted())

	quota.QuotaRemaining = -1
	assert.True(t, quota.IsExhausted(), "Отрицательный остаток тоже считается исчерпанным")
}

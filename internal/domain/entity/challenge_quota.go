package entity

import "time"

// DefaultQuota — дневной потолок генераций на пользователя.
const DefaultQuota = 50

// QuotaResetInterval — период, после которого квота восстанавливается.
const QuotaResetInterval = 24 * time.Hour

// ChallengeQuota представляет дневную квоту генераций пользователя.
// Одна запись на пользователя; user_id — идентификатор субъекта
// внешнего identity-провайдера.
type ChallengeQuota struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	UserID         string    `gorm:"size:255;not null;uniqueIndex" json:"user_id"`
	QuotaRemaining int       `gorm:"not null;default:50" json:"quota_remaining"`
	LastResetDate  time.Time `gorm:"not null" json:"last_reset_date"`
}

// TableName определяет имя таблицы для GORM
func (ChallengeQuota) TableName() string {
	return "challenge_quotas"
}

// IsResetDue проверяет, прошло ли более 24 часов с последнего сброса.
// Ровно 24 часа — еще не срок.
func (q *ChallengeQuota) IsResetDue(now time.Time) bool {
	return now.Sub(q.LastResetDate) > QuotaResetInterval
}

// IsExhausted проверяет, исчерпана ли квота
func (q *ChallengeQuota) IsExhausted() bool {
	return q.QuotaRemaining <= 0
}

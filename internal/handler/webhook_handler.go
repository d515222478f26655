package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"

	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
	"github.com/yourusername/challenge-api/internal/service"
)

// WebhookVerifier проверяет подпись вебхука над телом и заголовками.
// Реализуется svix.Webhook.
type WebhookVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

// WebhookHandler обрабатывает вебхуки identity-провайдера (Clerk)
type WebhookHandler struct {
	challengeService *service.ChallengeService
	verifier         WebhookVerifier
}

// NewWebhookHandler создает обработчик вебхуков с svix-верификацией подписи.
// Пустой секрет не мешает старту сервера: обработчик отвечает 500 на каждый
// запрос, пока секрет не сконфигурирован.
func NewWebhookHandler(challengeService *service.ChallengeService, signingSecret string) (*WebhookHandler, error) {
	h := &WebhookHandler{challengeService: challengeService}
	if signingSecret == "" {
		log.Println("[WebhookHandler] Предупреждение: CLERK_WEBHOOK_SECRET не задан, вебхуки будут отклоняться")
		return h, nil
	}
	wh, err := svix.NewWebhook(signingSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid webhook signing secret: %v", apperrors.ErrConfiguration, err)
	}
	h.verifier = wh
	return h, nil
}

// clerkEvent представляет конверт события Clerk
type clerkEvent struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// HandleUserCreated обрабатывает событие user.created: проверяет подпись
// и создает квоту для нового пользователя. События других типов
// подтверждаются без обработки.
func (h *WebhookHandler) HandleUserCreated(c *gin.Context) {
	if h.verifier == nil {
		log.Println("[WebhookHandler] Ошибка: верификатор подписи не настроен")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured", "error_type": "configuration"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body", "error_type": "validation"})
		return
	}

	if err := h.verifier.Verify(body, c.Request.Header); err != nil {
		log.Printf("[WebhookHandler] Неверная подпись вебхука: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature", "error_type": "webhook_signature"})
		return
	}

	var event clerkEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload", "error_type": "validation"})
		return
	}

	// Подписанные события чужих типов — не ошибка
	if event.Type != "user.created" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "reason": "not user.created event"})
		return
	}

	if _, err := h.challengeService.RegisterUser(event.Data.ID); err != nil {
		status := apperrors.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Printf("[WebhookHandler] Ошибка создания квоты для %s: %v", event.Data.ID, err)
			c.JSON(status, gin.H{"error": "Internal server error", "error_type": "internal"})
			return
		}
		if errors.Is(err, apperrors.ErrConflict) {
			// Повторная доставка события: доставка считается at-most-once
			log.Printf("[WebhookHandler] Повторная доставка user.created для %s", event.Data.ID)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/challenge-api/internal/handler/dto"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
	"github.com/yourusername/challenge-api/internal/service"
)

// ChallengeHandler обрабатывает запросы, связанные с челленджами
type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

// NewChallengeHandler создает новый обработчик челленджей
func NewChallengeHandler(challengeService *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

// GenerateChallengeRequest представляет запрос на генерацию челленджа
type GenerateChallengeRequest struct {
	Difficulty string `json:"difficulty" binding:"required"`
}

// GenerateChallenge обрабатывает запрос на генерацию нового челленджа
func (h *ChallengeHandler) GenerateChallenge(c *gin.Context) {
	var req GenerateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
		return
	}

	userID := c.GetString("user_id")

	challenge, err := h.challengeService.GenerateChallenge(c.Request.Context(), userID, req.Difficulty)
	if err != nil {
		h.handleError(c, "GenerateChallenge", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewChallengeResponse(challenge))
}

// GetHistory возвращает историю челленджей пользователя
func (h *ChallengeHandler) GetHistory(c *gin.Context) {
	userID := c.GetString("user_id")

	challenges, err := h.challengeService.GetHistory(userID)
	if err != nil {
		h.handleError(c, "GetHistory", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewHistoryResponse(challenges))
}

// GetQuota возвращает квоту пользователя.
// Если записи нет, отдается нулевая квота без создания строки в БД.
func (h *ChallengeHandler) GetQuota(c *gin.Context) {
	userID := c.GetString("user_id")

	quota, err := h.challengeService.GetQuota(userID)
	if err != nil {
		h.handleError(c, "GetQuota", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuotaResponse(quota))
}

// handleError отображает ошибку сервиса в HTTP-ответ по категории ошибки
func (h *ChallengeHandler) handleError(c *gin.Context, op string, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		// Детали серверных ошибок не отдаем клиенту
		log.Printf("[ChallengeHandler] %s: %v", op, err)
		c.JSON(status, gin.H{"error": "Internal server error", "error_type": "internal"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

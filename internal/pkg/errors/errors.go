package errors

import (
	"errors"
	"net/http"
)

// Общие ошибки приложения. Каждая семантическая категория имеет собственное
// sentinel-значение, а сопоставление с HTTP-статусом выполняется в HTTPStatus.
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthenticated используется, когда запрос не содержит валидного
	// токена идентификации (нет токена, подпись не сошлась, токен истек).
	ErrUnauthenticated = errors.New("user not authenticated")

	// ErrAuthInternal используется, когда проверка токена упала по причинам,
	// не связанным с самим токеном (неверная конфигурация ключа и т.п.).
	ErrAuthInternal = errors.New("authentication check failed")

	// ErrQuotaExceeded используется, когда дневная квота генераций исчерпана.
	ErrQuotaExceeded = errors.New("challenge quota exceeded")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния
	// (например, повторное создание квоты для того же пользователя).
	ErrConflict = errors.New("resource state conflict")

	// ErrStorage используется для ошибок слоя хранения: недоступность БД,
	// нарушение ограничений, о которых вызывающий код не знает.
	ErrStorage = errors.New("storage operation failed")

	// ErrWebhookSignature используется, когда подпись вебхука не прошла проверку.
	ErrWebhookSignature = errors.New("webhook signature verification failed")

	// ErrConfiguration используется, когда обязательный параметр конфигурации
	// отсутствует и операция невозможна.
	ErrConfiguration = errors.New("configuration error")
)

// HTTPStatus возвращает HTTP-статус для ошибки приложения.
// Каждая категория ошибок отображается в собственный статус — вместо
// общего catch-all, смешивающего клиентские и серверные ошибки в один код.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrWebhookSignature):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests
	default:
		// ErrAuthInternal, ErrStorage, ErrConfiguration и все неизвестное
		return http.StatusInternalServerError
	}
}

// Package middleware HTTP-middleware: идентификация клиента и метрики.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const clientIDKey contextKey = "clientID"

// HeaderClientID заголовок, из которого берется ID клиента.
// Аутентификацию выполняет внешний шлюз, сюда приходит уже проверенный ID.
const HeaderClientID = "X-Client-ID"

// Auth извлекает ID клиента из заголовка и кладет его в контекст запроса.
// Отсутствие заголовка не прерывает запрос: хендлеры сами решают,
// обязателен ли клиент для конкретной операции.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := strings.TrimSpace(r.Header.Get(HeaderClientID))
		if clientID != "" {
			ctx := context.WithValue(r.Context(), clientIDKey, clientID)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// GetClientID возвращает ID клиента из контекста запроса
func GetClientID(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(clientIDKey).(string)
	if !ok || clientID == "" {
		return "", false
	}
	return clientID, true
}

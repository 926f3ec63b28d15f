package client

import "net/http"

type EventKind string

const (
	EventSessionExpired EventKind = "session_expired"
	EventValidation     EventKind = "validation"
	EventError          EventKind = "error"
)

const (
	sessionExpiredMessage = "Session expired. Please login again."
	genericMessage        = "Something went wrong"
)

// Notification — то, что UI показывает пользователю
type Notification struct {
	Kind    EventKind
	Status  int
	Message string
}

// SessionExpired: 401 — забыть токен и сообщить один раз
func SessionExpired(g *Gateway, apiErr *APIError) {
	if apiErr.Status != http.StatusUnauthorized {
		return
	}
	_ = g.tokens.Clear()
	g.Publish(Notification{Kind: EventSessionExpired, Status: apiErr.Status, Message: sessionExpiredMessage})
}

// ValidationNotifier: 422 — по уведомлению на каждое сообщение
func ValidationNotifier(g *Gateway, apiErr *APIError) {
	if apiErr.Status != http.StatusUnprocessableEntity {
		return
	}
	msgs := apiErr.Messages()
	if len(msgs) == 0 && apiErr.Message != "" {
		msgs = []string{apiErr.Message}
	}
	for _, m := range msgs {
		g.Publish(Notification{Kind: EventValidation, Status: apiErr.Status, Message: m})
	}
}

// ErrorNotifier — всё остальное: сообщение сервера или общий текст
func ErrorNotifier(g *Gateway, apiErr *APIError) {
	switch apiErr.Status {
	case http.StatusUnauthorized, http.StatusUnprocessableEntity:
		return
	}
	msg := apiErr.Message
	if apiErr.Status == 0 || msg == "" {
		msg = genericMessage
	}
	g.Publish(Notification{Kind: EventError, Status: apiErr.Status, Message: msg})
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"catalog/internal/auth"
	"catalog/internal/models"
)

const (
	ctxRequestID = "request_id"
	ctxUser      = "currentUser"
	ctxToken     = "currentToken"
	sessionUser  = "user_id"
)

// requestID берёт X-Request-ID или генерирует новый
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// requestLogger — одна строка на запрос
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		}
		userID := uint(0)
		if u := currentUser(c); u != nil {
			userID = u.ID
		}
		ev.Str("request_id", c.GetString(ctxRequestID)).
			Uint("user_id", userID).
			Str("method", c.Request.Method).
			Str("url", c.Request.URL.String()).
			Str("ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}

// recovery ловит панику, пишет стек и отвечает 500
func recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				var errMsg string
				if e, ok := err.(error); ok {
					errMsg = e.Error()
				} else {
					errMsg = fmt.Sprintf("%v", err)
				}
				log.Error().
					Str("request_id", c.GetString(ctxRequestID)).
					Str("method", c.Request.Method).
					Str("url", c.Request.URL.String()).
					Str("error", errMsg).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			}
		}()
		c.Next()
	}
}

// mustAuth: bearer-токен, а для браузера — cookie-сессия
func (h *Handler) mustAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		token := bearerToken(c)

		var u *models.User
		var err error
		switch {
		case token != "":
			u, err = h.auth.Authenticate(ctx, token)
		default:
			sess := sessions.Default(c)
			if id, ok := sess.Get(sessionUser).(uint); ok && id != 0 {
				u, err = h.auth.User(ctx, id)
			} else {
				err = auth.ErrUnauthenticated
			}
		}
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
				return
			}
			h.fail(c, err)
			c.Abort()
			return
		}
		c.Set(ctxUser, u)
		c.Set(ctxToken, token)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUser); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

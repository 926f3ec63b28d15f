package api

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"catalog/internal/auth"
)

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := bindRequired(c, &req); err != nil {
		h.bindFailed(c, err)
		return
	}
	u, token, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.remember(c, u.ID)
	c.JSON(http.StatusCreated, gin.H{"user": u, "token": token})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := bindRequired(c, &req); err != nil {
		h.bindFailed(c, err)
		return
	}
	u, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.remember(c, u.ID)
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

// logout отзывает предъявленный токен и чистит сессию
func (h *Handler) logout(c *gin.Context) {
	if token := c.GetString(ctxToken); token != "" {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			h.fail(c, err)
			return
		}
	}
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Status(http.StatusNoContent)
}

func (h *Handler) user(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (h *Handler) remember(c *gin.Context, userID uint) {
	sess := sessions.Default(c)
	sess.Set(sessionUser, userID)
	if err := sess.Save(); err != nil {
		h.log.Warn().Err(err).Msg("failed to save session")
	}
}

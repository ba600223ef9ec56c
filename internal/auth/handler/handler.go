package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ragavi522/knee-prime-assessment/internal/auth"
	"github.com/ragavi522/knee-prime-assessment/internal/logger"
	"github.com/ragavi522/knee-prime-assessment/internal/session"
)

type Handler struct {
	store *auth.Store
}

func NewHandler(store *auth.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/otp/request", h.RequestCode)
	r.POST("/auth/otp/verify", h.VerifyCode)
	r.GET("/auth/session", h.Session)
	r.POST("/auth/logout", h.Logout)
}

type requestCodeRequest struct {
	Phone string `json:"phone"`
}

func (h *Handler) RequestCode(c *gin.Context) {
	var req requestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.store.RequestCode(c.Request.Context(), req.Phone)
	if err != nil {
		// Delivery failure is a provider problem, not bad credentials.
		if errors.Is(err, auth.ErrGateway) {
			c.JSON(http.StatusBadGateway, gin.H{"error": h.storeError()})
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "otp_sent"})
}

type verifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (h *Handler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.store.VerifyCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		h.fail(c, err)
		return
	}

	st := h.store.Snapshot()

	session.SetCookie(c.Writer, st.SessionID, st.ExpiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("login succeeded", map[string]any{
		"user_id": user.ID,
		"role":    string(user.Role),
		"ip":      c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{
		"status": "authenticated",
		"user":   user,
	})
}

func (h *Handler) Session(c *gin.Context) {
	ok := h.store.ValidateSession(c.Request.Context())
	st := h.store.Snapshot()

	if !ok || !session.CookieMatches(c.Request, st.SessionID) {
		c.JSON(http.StatusOK, gin.H{
			"authenticated": false,
			"expired":       st.Expired,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          st.User,
		"expires_at":    st.ExpiresAt,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.store.Logout(c.Request.Context())

	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// Idempotent response
	c.Status(http.StatusNoContent)
}

func (h *Handler) storeError() string {
	msg := h.store.Snapshot().Err
	if msg == "" {
		msg = "request failed"
	}
	return msg
}

// fail maps store errors onto HTTP statuses. The store has already
// recorded a user-facing message in its error field.
func (h *Handler) fail(c *gin.Context, err error) {
	msg := h.storeError()

	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	case errors.Is(err, auth.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "another request is in progress"})
	case errors.Is(err, auth.ErrGateway):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
	case errors.Is(err, auth.ErrProfileNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

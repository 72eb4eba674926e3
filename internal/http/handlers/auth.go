package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/T1-hotae/cursor-memo-db/internal/auth"
	"github.com/T1-hotae/cursor-memo-db/internal/config"
	"github.com/T1-hotae/cursor-memo-db/internal/domain/user"
	"github.com/T1-hotae/cursor-memo-db/internal/http/middlewares"
	"github.com/T1-hotae/cursor-memo-db/internal/observability"
	"github.com/T1-hotae/cursor-memo-db/internal/security"
	"github.com/gin-gonic/gin"
)

// invalidCredentialsMsg is shared by the unknown-email and wrong-password
// paths so a caller cannot tell which field was wrong.
const invalidCredentialsMsg = "Email or password is incorrect."

type UserStore interface {
	Create(ctx context.Context, email, passwordHash, name string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type AuthHandler struct {
	store   UserStore
	tokens  *auth.Manager
	cookies *auth.CookieManager
	metrics *observability.Prom
}

func NewAuthHandler(store UserStore, tokens *auth.Manager, cookies *auth.CookieManager, metrics *observability.Prom) *AuthHandler {
	return &AuthHandler{
		store:   store,
		tokens:  tokens,
		cookies: cookies,
		metrics: metrics,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		h.metrics.ObserveAuth("register", "rejected")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	_, err := h.store.GetByEmail(cctx, req.Email)

	if err == nil {
		h.metrics.ObserveAuth("register", "rejected")
		RespondConflict(ctx, "email_taken", "This email is already registered.")
		return
	}

	if !errors.Is(err, user.ErrNotFound) {
		h.serverError(ctx, "register", "email lookup failed", err)
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		h.serverError(ctx, "register", "password hash failed", err)
		return
	}

	u, err := h.store.Create(cctx, req.Email, hash, req.Name)

	if err != nil {
		// the store enforces uniqueness, so a concurrent registration for
		// the same email still lands here
		if errors.Is(err, user.ErrEmailAlreadyUsed) {
			h.metrics.ObserveAuth("register", "rejected")
			RespondConflict(ctx, "email_taken", "This email is already registered.")
			return
		}

		h.serverError(ctx, "register", "user create failed", err)
		return
	}

	if !h.startSession(ctx, "register", u) {
		return
	}

	h.metrics.ObserveAuth("register", "ok")

	ctx.JSON(http.StatusCreated, gin.H{
		"user": u.Public(),
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		h.metrics.ObserveAuth("login", "rejected")
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.store.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			h.metrics.ObserveAuth("login", "rejected")
			RespondUnauthorized(ctx, "invalid_credentials", invalidCredentialsMsg)
			return
		}

		h.serverError(ctx, "login", "email lookup failed", err)
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		h.metrics.ObserveAuth("login", "rejected")
		RespondUnauthorized(ctx, "invalid_credentials", invalidCredentialsMsg)
		return
	}

	if !h.startSession(ctx, "login", foundUser) {
		return
	}

	h.metrics.ObserveAuth("login", "ok")

	ctx.JSON(http.StatusOK, gin.H{
		"user": foundUser.Public(),
	})
}

// Logout clears the session cookie whether or not a session existed.
// There is no server-side revocation: an already-issued token stays
// valid until it expires.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.cookies.Clear(ctx)

	h.metrics.ObserveAuth("logout", "ok")

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Logged out.",
	})
}

// Me reports the current session's account, or null for an anonymous
// visitor. Anonymous is an expected state, never an error; the session
// middleware already collapsed invalid and expired tokens into "absent".
func (h *AuthHandler) Me(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		h.metrics.ObserveAuth("me", "ok")
		ctx.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	// re-fetch so a deleted account stops resolving even with a live token
	u, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			h.metrics.ObserveAuth("me", "ok")
			ctx.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}

		h.serverError(ctx, "me", "user lookup failed", err)
		return
	}

	h.metrics.ObserveAuth("me", "ok")

	ctx.JSON(http.StatusOK, gin.H{
		"user": u.Public(),
	})
}

// startSession issues a token for u and attaches the session cookie.
// Returns false after responding if issuance failed.
func (h *AuthHandler) startSession(ctx *gin.Context, op string, u user.User) bool {
	token, err := h.tokens.Issue(u.ID, u.Email)

	if err != nil {
		h.serverError(ctx, op, "token issue failed", err)
		return false
	}

	h.cookies.Attach(ctx, token)

	return true
}

// serverError logs full detail and returns only a generic message.
func (h *AuthHandler) serverError(ctx *gin.Context, op, detail string, err error) {
	h.metrics.ObserveAuth(op, "error")

	slog.Default().ErrorContext(ctx.Request.Context(), "auth request failed",
		"op", op,
		"detail", detail,
		"err", err,
	)

	RespondInternal(ctx, "Something went wrong. Please try again.")
}

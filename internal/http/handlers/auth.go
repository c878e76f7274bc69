package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notehq/notehub/internal/apperrors"
	"github.com/notehq/notehub/internal/auth"
	"github.com/notehq/notehub/internal/config"
	"github.com/notehq/notehub/internal/domain/user"
	"github.com/notehq/notehub/internal/observability"
)

// Consumer-side view of the auth service, so tests can fake it.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (user.Public, error)
	SignIn(ctx context.Context, email, password string) (user.Public, string, string, error)
	RefreshToken(ctx context.Context, userID string) (string, error)
}

type RefreshVerifier interface {
	VerifyRefreshToken(token string) (*auth.Claims, error)
}

type AuthHandler struct {
	svc  AuthService
	jwt  RefreshVerifier
	cfg  config.Config
	prom *observability.Prom
}

func NewAuthHandler(svc AuthService, jwt RefreshVerifier, cfg config.Config, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		svc:  svc,
		jwt:  jwt,
		cfg:  cfg,
		prom: prom,
	}
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// SignUp creates the account only; the client still has to sign in.
func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	pub, err := h.svc.SignUp(cctx, req.Email, req.Password)

	if err != nil {
		h.observeAuth("signup", authResult(err))
		RespondAppError(ctx, err)
		return
	}

	h.observeAuth("signup", "ok")

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    pub,
	})
}

func (h *AuthHandler) SignIn(ctx *gin.Context) {
	var req SignInRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup + hash check
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	pub, accessToken, refreshToken, err := h.svc.SignIn(cctx, req.Email, req.Password)

	if err != nil {
		h.observeAuth("signin", authResult(err))
		RespondAppError(ctx, err)
		return
	}

	h.setAuthCookie(ctx, accessTokenCookie, accessToken, h.cfg.AccessTTL)
	h.setAuthCookie(ctx, refreshTokenCookie, refreshToken, h.cfg.RefreshTTL)

	h.observeAuth("signin", "ok")

	ctx.JSON(http.StatusOK, gin.H{
		"message":      "Sign in successful",
		"user":         pub,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Refresh mints a new access token off a still-valid refresh token. The
// refresh token is read from the cookie, with the request body as fallback
// for cookie-less clients. It is not rotated.
func (h *AuthHandler) Refresh(ctx *gin.Context) {
	raw, err := ctx.Cookie(refreshTokenCookie)

	if err != nil || raw == "" {
		var req RefreshRequest

		// body is optional here, ignore bind errors
		_ = ctx.ShouldBindJSON(&req)

		raw = req.RefreshToken
	}

	if raw == "" {
		RespondUnAuthorized(ctx, "no_refresh", "Refresh token is required")
		return
	}

	claims, err := h.jwt.VerifyRefreshToken(raw)

	if err != nil {
		h.observeAuth("refresh", authResult(err))
		RespondAppError(ctx, err)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	accessToken, err := h.svc.RefreshToken(cctx, claims.UserID())

	if err != nil {
		h.observeAuth("refresh", authResult(err))
		RespondAppError(ctx, err)
		return
	}

	h.setAuthCookie(ctx, accessTokenCookie, accessToken, h.cfg.AccessTTL)

	h.observeAuth("refresh", "ok")

	ctx.JSON(http.StatusOK, gin.H{
		"message":     "Token refreshed successfully",
		"accessToken": accessToken,
	})
}

// Logout clears the cookie pair. The tokens themselves stay valid until
// expiry: with no server-side token store there is nothing to revoke.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearAuthCookie(ctx, accessTokenCookie)
	h.clearAuthCookie(ctx, refreshTokenCookie)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Helper functions

func (h *AuthHandler) observeAuth(op, result string) {
	if h.prom != nil {
		h.prom.ObserveAuth(op, result)
	}
}

// authResult buckets a failed auth operation for metrics: client-caused
// outcomes count as rejected, 500-class ones as error.
func authResult(err error) string {
	switch apperrors.KindOf(err) {
	case apperrors.KindInternal, apperrors.KindExhausted:
		return "error"
	default:
		return "rejected"
	}
}

func (h *AuthHandler) setAuthCookie(ctx *gin.Context, name, value string, ttl time.Duration) {
	secure := h.cfg.Env == "prod"

	ctx.SetSameSite(http.SameSiteStrictMode)

	ctx.SetCookie(
		name,
		value,
		int(ttl.Seconds()),
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearAuthCookie(ctx *gin.Context, name string) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(
		name,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}

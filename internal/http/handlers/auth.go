package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/producthub/internal/config"
	"github.com/geocoder89/producthub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type Accounts interface {
	Register(ctx context.Context, req user.CredentialsRequest) (user.User, error)
	Login(ctx context.Context, req user.LoginRequest) (string, error)
}

type AuthHandler struct {
	accounts Accounts
	log      *slog.Logger
}

func NewAuthHandler(accounts Accounts, log *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, log: loggerOrDefault(log)}
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.CredentialsRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.accounts.Register(cctx, req)
	if err != nil {
		RespondServiceError(ctx, h.log, err, "Could not create user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// Login answers every credential failure with the same 401 body.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	token, err := h.accounts.Login(cctx, req)
	if err != nil {
		RespondServiceError(ctx, h.log, err, "Could not log in")
		return
	}

	ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

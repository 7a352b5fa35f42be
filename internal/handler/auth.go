package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ghm/hotel-booking/internal/config"
	"github.com/ghm/hotel-booking/internal/middleware"
	"github.com/ghm/hotel-booking/internal/model"
	"github.com/ghm/hotel-booking/internal/repository"
	"github.com/ghm/hotel-booking/internal/utils"
)

// UserStore is implemented by repository.UserRepo and memory.Users.
type UserStore interface {
	Create(ctx context.Context, username, password, role string, cost int) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// AuthHandler serves registration, login and the session profile.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	Log   *zap.Logger
}

func NewAuthHandler(cfg config.Config, users UserStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Log: orNop(log)}
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userPart struct {
	Username string `json:"username"`
	Role     string `json:"ruolo"`
}

// Register creates a cliente account and logs it in.  Callers that
// already hold a session must log out first.
func (h *AuthHandler) Register(c echo.Context) error {
	if u, _ := middleware.CurrentUser(c); u != "" {
		return fail(c, http.StatusUnauthorized, "logout required")
	}
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "username/password required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Username, req.Password, model.RoleClient, h.Cfg.BcryptCost)
	if err != nil {
		return writeError(c, h.Log, "register", err)
	}
	if err := h.startSession(c, u); err != nil {
		return err
	}
	h.Log.Info("user registered", zap.String("username", u.Username))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": userPart{u.Username, u.Role}})
}

// Login checks the password and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "username/password required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "invalid credentials")
		}
		return writeError(c, h.Log, "login", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err := h.startSession(c, u); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": userPart{u.Username, u.Role}})
}

func (h *AuthHandler) startSession(c echo.Context, u model.User) error {
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.Username, u.Role, h.Cfg.SessionTTL)
	if err != nil {
		h.Log.Error("issue session failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "issue session failed")
	}
	middleware.SetSessionCookie(c, tok, h.Cfg.Env == "prod")
	return nil
}

// Logout always clears the cookie, valid or not.
func (h *AuthHandler) Logout(c echo.Context) error {
	middleware.ClearSessionCookie(c)
	return done(c)
}

// Profile returns the session user or null.
func (h *AuthHandler) Profile(c echo.Context) error {
	u, r := middleware.CurrentUser(c)
	if u == "" {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, userPart{u, r})
}

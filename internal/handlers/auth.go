package handlers

import (
	"errors"
	"net/http"

	"qaboard/internal/middleware"
	"qaboard/internal/models"
	"qaboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	auth         *services.AuthService
	cookieSecure bool
}

func NewAuthHandler(auth *services.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// setToken 写入 HTTP-only 的会话 cookie
func (h *AuthHandler) setToken(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.auth.TTL().Seconds()), "/", "", h.cookieSecure, true)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.auth.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.Is(err, services.ErrUserExists):
			respondMessage(c, http.StatusBadRequest, "User with this username or email already exists")
		case errors.As(err, &verr):
			// 注册接口缺字段按服务端错误处理
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("signup rejected")
			respondMessage(c, http.StatusInternalServerError, "Error registering user")
		default:
			respondError(c, err)
		}
		return
	}

	h.setToken(c, token)
	zerolog.Ctx(c.Request.Context()).Info().Uint("user_id", user.ID).Msg("user registered")
	respondMessage(c, http.StatusCreated, "User registered successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	_, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			respondMessage(c, http.StatusBadRequest, "Invalid email or password")
		case errors.Is(err, services.ErrMissingPassword):
			respondMessage(c, http.StatusInternalServerError, "Error logging in")
		default:
			respondError(c, err)
		}
		return
	}

	h.setToken(c, token)
	respondMessage(c, http.StatusOK, "Logged in successfully")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.cookieSecure, true)
	respondMessage(c, http.StatusOK, "Logged out successfully")
}

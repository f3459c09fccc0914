package handlers

import (
	"net/http"
	"strconv"

	"qaboard/internal/middleware"
	"qaboard/internal/store"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *store.UserStore
}

func NewUserHandler(users *store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// Profile 当前登录用户的主页数据
func (h *UserHandler) Profile(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok || claims.UserID == "" {
		respondMessage(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		respondError(c, err)
		return
	}

	profile, err := h.users.GetProfileByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if profile == nil {
		respondMessage(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, profile)
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"qaboard/internal/middleware"
	"qaboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// bodyPathPrefix 请求体字段在校验错误中的路径前缀
const bodyPathPrefix = "/body/"

// tagCountsCacheKey is shared by the tag handler and question creation.
const tagCountsCacheKey = "tag_counts"

const tagCountsTTL = time.Minute

var bindingOnce sync.Once

// UseJSONFieldNames makes gin's binding validator report json field names.
func UseJSONFieldNames() {
	bindingOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(models.JSONFieldName)
		}
	})
}

// respondMessage writes {message}
func respondMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// respondError maps validation errors to 400 and everything else to 500. The
// cause of a 500 is logged, never sent.
func respondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  verr.Errors,
		})
		return
	}
	zerolog.Ctx(c.Request.Context()).Error().Err(err).
		Str("path", c.FullPath()).
		Msg("request failed")
	respondMessage(c, http.StatusInternalServerError, "Internal server error")
}

// bindJSON 绑定请求体，失败时直接写出 400 响应并返回 false
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		respondError(c, models.FromValidator(verrs, bodyPathPrefix))
		return false
	}
	respondMessage(c, http.StatusBadRequest, "Invalid request body")
	return false
}

// parseID reads a numeric path parameter. Ids that cannot exist are reported
// as not found.
func parseID(c *gin.Context, name, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondMessage(c, http.StatusNotFound, what+" not found")
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the authenticated user id and username, writing 401
// when the token carries no usable id.
func currentUser(c *gin.Context) (uint, string, bool) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok || claims.UserID == "" {
		respondMessage(c, http.StatusUnauthorized, "Unauthorized")
		return 0, "", false
	}
	id, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		respondMessage(c, http.StatusUnauthorized, "Unauthorized")
		return 0, "", false
	}
	return uint(id), claims.Username, true
}

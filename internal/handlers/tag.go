package handlers

import (
	"net/http"

	"qaboard/internal/models"
	"qaboard/internal/store"
	"qaboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	store *store.Store
	cache *utils.Cache
}

func NewTagHandler(s *store.Store, cache *utils.Cache) *TagHandler {
	return &TagHandler{store: s, cache: cache}
}

// GetTagsWithQuestionNumber 标签及其问题数，缓存一分钟
func (h *TagHandler) GetTagsWithQuestionNumber(c *gin.Context) {
	if cached, ok := h.cache.Get(tagCountsCacheKey).([]models.TagCount); ok {
		c.JSON(http.StatusOK, cached)
		return
	}
	counts, err := h.store.Questions.GetQuestionCountByTag(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.cache.Set(tagCountsCacheKey, counts, tagCountsTTL)
	c.JSON(http.StatusOK, counts)
}

func (h *TagHandler) GetTags(c *gin.Context) {
	tags, err := h.store.Tags.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

package handlers

import (
	"net/http"
	"strings"
	"time"

	"qaboard/internal/models"
	"qaboard/internal/services"
	"qaboard/internal/store"
	"qaboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type QuestionHandler struct {
	store *store.Store
	cache *utils.Cache
	now   func() time.Time
}

func NewQuestionHandler(s *store.Store, cache *utils.Cache) *QuestionHandler {
	return &QuestionHandler{store: s, cache: cache, now: time.Now}
}

type addQuestionRequest struct {
	Title string   `json:"title" binding:"required"`
	Text  string   `json:"text" binding:"required"`
	Tags  []string `json:"tags"`
}

type addCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// normalizeTagNames 去空白、转小写并去重，保留首次出现的顺序
func normalizeTagNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// renderQuestion fills text_html on the question and its answers.
func renderQuestion(q *models.Question) {
	q.TextHTML = utils.RenderMarkdown(q.Text)
	for i := range q.Answers {
		q.Answers[i].TextHTML = utils.RenderMarkdown(q.Answers[i].Text)
	}
}

func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	userID, username, ok := currentUser(c)
	if !ok {
		return
	}
	var req addQuestionRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	tags, err := h.store.Tags.FindOrCreateMany(ctx, normalizeTagNames(req.Tags))
	if err != nil {
		respondError(c, err)
		return
	}

	q := &models.Question{
		Title:       req.Title,
		Text:        req.Text,
		Tags:        tags,
		AskedBy:     username,
		AskDateTime: h.now(),
	}
	if err := h.store.Questions.Create(ctx, q); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.store.Users.FindByIDAndAddQuestion(ctx, userID, q.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		zerolog.Ctx(ctx).Warn().Uint("user_id", userID).Uint("question_id", q.ID).
			Msg("question posted by unknown user")
	}

	h.cache.Delete(tagCountsCacheKey)
	q.Normalize()
	c.JSON(http.StatusOK, q)
}

// GetQuestionByID 获取问题详情，浏览量 +1
func (h *QuestionHandler) GetQuestionByID(c *gin.Context) {
	id, ok := parseID(c, "id", "Question")
	if !ok {
		return
	}
	q, err := h.store.Questions.FindByIDAndIncrementViews(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if q == nil {
		respondMessage(c, http.StatusNotFound, "Question not found")
		return
	}
	renderQuestion(q)
	c.JSON(http.StatusOK, q)
}

// GetQuestions lists questions by ?order= and filters them by ?search=.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	questions, err := services.ListQuestions(c.Request.Context(), h.store.Questions,
		c.DefaultQuery("order", services.OrderNewest), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) AddComment(c *gin.Context) {
	userID, username, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "Question")
	if !ok {
		return
	}
	var req addCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	q, err := h.store.Questions.FindByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if q == nil {
		respondMessage(c, http.StatusNotFound, "Question not found")
		return
	}

	comment := &models.Comment{Text: req.Text, CommentBy: username, CommentDateTime: h.now()}
	if err := h.store.Comments.Create(ctx, comment); err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.store.Questions.AddComment(ctx, q.ID, comment.ID); err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.store.Users.FindByIDAndAddComment(ctx, userID, comment.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"qaboard/internal/models"
	"qaboard/internal/store"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct {
	store *store.Store
	now   func() time.Time
}

func NewAnswerHandler(s *store.Store) *AnswerHandler {
	return &AnswerHandler{store: s, now: time.Now}
}

type addAnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Text       string `json:"text" binding:"required"`
}

func (h *AnswerHandler) AddAnswer(c *gin.Context) {
	userID, username, ok := currentUser(c)
	if !ok {
		return
	}
	var req addAnswerRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	q, err := h.store.Questions.FindByID(ctx, req.QuestionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if q == nil {
		respondMessage(c, http.StatusNotFound, "Question not found")
		return
	}

	answer := &models.Answer{
		QuestionID:  q.ID,
		Text:        req.Text,
		AnsBy:       username,
		AnsDateTime: h.now(),
	}
	if err := h.store.Answers.Create(ctx, answer); err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.Questions.AddAnswer(ctx, q, answer.ID); err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.store.Users.FindByIDAndAddAnswer(ctx, userID, answer.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// Upvote 点赞，再次点赞则取消
func (h *AnswerHandler) Upvote(c *gin.Context) {
	h.vote(c, h.store.Answers.FindByIDAndAddUpvote)
}

// Downvote 踩，再次点击则取消
func (h *AnswerHandler) Downvote(c *gin.Context) {
	h.vote(c, h.store.Answers.FindByIDAndAddDownvote)
}

type voteFunc func(ctx context.Context, answerID, userID uint) (*models.Answer, error)

func (h *AnswerHandler) vote(c *gin.Context, apply voteFunc) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "Answer")
	if !ok {
		return
	}
	answer, err := apply(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if answer == nil {
		respondMessage(c, http.StatusNotFound, "Answer not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"up_votes":   answer.UpVotes,
		"down_votes": answer.DownVotes,
	})
}

func (h *AnswerHandler) AddComment(c *gin.Context) {
	userID, username, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "Answer")
	if !ok {
		return
	}
	var req addCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	answer, err := h.store.Answers.FindByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if answer == nil {
		respondMessage(c, http.StatusNotFound, "Answer not found")
		return
	}

	comment := &models.Comment{Text: req.Text, CommentBy: username, CommentDateTime: h.now()}
	if err := h.store.Comments.Create(ctx, comment); err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.store.Answers.FindByIDAndAddComment(ctx, answer.ID, comment.ID); err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.store.Users.FindByIDAndAddComment(ctx, userID, comment.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

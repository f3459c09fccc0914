package services

import (
	"context"
	"regexp"
	"strings"

	"qaboard/internal/models"
	"qaboard/internal/store"
)

const (
	OrderNewest     = "newest"
	OrderActive     = "active"
	OrderUnanswered = "unanswered"
)

var tagToken = regexp.MustCompile(`\[([^\[\]]+)\]`)

// SearchQuery 搜索串解析结果：[tag] 为标签过滤，其余为标题关键词
type SearchQuery struct {
	Tags  []string
	Words []string
}

// ParseSearch splits a search string into bracketed tag names and
// whitespace-separated words, both lowercased.
func ParseSearch(search string) SearchQuery {
	var q SearchQuery
	for _, m := range tagToken.FindAllStringSubmatch(search, -1) {
		if name := strings.ToLower(strings.TrimSpace(m[1])); name != "" {
			q.Tags = append(q.Tags, name)
		}
	}
	rest := tagToken.ReplaceAllString(search, " ")
	for _, w := range strings.Fields(rest) {
		q.Words = append(q.Words, strings.ToLower(w))
	}
	return q
}

func (q SearchQuery) Empty() bool {
	return len(q.Tags) == 0 && len(q.Words) == 0
}

// Matches 命中任一标签或标题包含任一关键词即匹配
func (q SearchQuery) Matches(question *models.Question) bool {
	for _, tag := range q.Tags {
		if question.HasTag(tag) {
			return true
		}
	}
	title := strings.ToLower(question.Title)
	for _, w := range q.Words {
		if strings.Contains(title, w) {
			return true
		}
	}
	return false
}

// FilterQuestions keeps the questions matching search, preserving order. An
// empty search keeps everything.
func FilterQuestions(questions []models.Question, search string) []models.Question {
	q := ParseSearch(search)
	if q.Empty() {
		return questions
	}
	out := make([]models.Question, 0, len(questions))
	for i := range questions {
		if q.Matches(&questions[i]) {
			out = append(out, questions[i])
		}
	}
	return out
}

// ListQuestions selects questions by order (newest, active, unanswered;
// anything else means newest) and then applies the search filter.
func ListQuestions(ctx context.Context, questions *store.QuestionStore, order, search string) ([]models.Question, error) {
	var (
		list []models.Question
		err  error
	)
	switch order {
	case OrderActive:
		list, err = questions.GetActiveQuestions(ctx)
	case OrderUnanswered:
		list, err = questions.GetUnansweredQuestions(ctx)
	default:
		list, err = questions.GetNewestQuestions(ctx)
	}
	if err != nil {
		return nil, err
	}
	return FilterQuestions(list, search), nil
}

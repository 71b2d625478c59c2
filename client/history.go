package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mkarlsen/briefly/internal/models"
)

type ViewState int

const (
	StateIdle ViewState = iota
	StateLoading
	StateSuccess
	StateError
)

const historyTimeoutMessage = "Request timed out. Please try again."

// HistoryView holds the state of the article-history screen. One load is in
// flight at a time; a failed load leaves an error message and waits for a
// manual retry.
type HistoryView struct {
	api *Client

	State    ViewState
	Articles []models.Article
	Err      string
}

func NewHistoryView(api *Client) *HistoryView {
	return &HistoryView{api: api}
}

// Load fetches the caller's articles. Safe to call again as a retry after
// an error.
func (v *HistoryView) Load(ctx context.Context) {
	v.State = StateLoading
	v.Err = ""

	articles, err := v.api.ArticlesByUser(ctx)
	if err != nil {
		v.Articles = nil
		v.State = StateError
		if errors.Is(err, ErrTimeout) {
			v.Err = historyTimeoutMessage
		} else {
			v.Err = err.Error()
		}
		return
	}

	v.Articles = articles
	v.State = StateSuccess
}

// Groups buckets the loaded articles by recency relative to now.
func (v *HistoryView) Groups(now time.Time) []ArticleGroup {
	return GroupByRecency(v.Articles, now)
}

type ArticleGroup struct {
	Label    string
	Articles []models.Article
}

// RecencyLabel maps elapsed whole days to a human label. Weeks floor at 7
// days, months at a fixed 30-day approximation.
func RecencyLabel(createdAt, now time.Time) string {
	days := int(math.Floor(now.Sub(createdAt).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		weeks := days / 7
		if weeks > 1 {
			return fmt.Sprintf("%d weeks ago", weeks)
		}
		return "1 week ago"
	default:
		months := days / 30
		if months > 1 {
			return fmt.Sprintf("%d months ago", months)
		}
		return "1 month ago"
	}
}

// GroupByRecency buckets articles by their recency label. Bucket order is
// first-encounter order of the input, which arrives sorted newest first.
func GroupByRecency(articles []models.Article, now time.Time) []ArticleGroup {
	var groups []ArticleGroup
	index := make(map[string]int)

	for _, article := range articles {
		label := RecencyLabel(article.CreatedAt, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, ArticleGroup{Label: label})
		}
		groups[i].Articles = append(groups[i].Articles, article)
	}

	return groups
}

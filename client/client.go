// Package client is the consumer side of the briefly API: a typed HTTP
// client plus the two stateful views (history, quiz flow) the terminal
// frontend renders.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mkarlsen/briefly/internal/models"
)

// Per-call deadline unless the caller overrides RequestTimeout.
const defaultRequestTimeout = 5 * time.Second

// ErrTimeout marks a request cancelled by the per-call deadline, so views
// can show a "timed out" message distinct from other failures.
var ErrTimeout = errors.New("request timed out")

type Client struct {
	http.Client
	Addr  string
	Token string

	// RequestTimeout overrides the 5s per-call deadline. Tests shrink it.
	RequestTimeout time.Duration
}

// apiError covers both envelope keys the server emits ("err" on most
// routes, "error" on the history listing's 401).
type apiError struct {
	Err      string `json:"err"`
	ErrorMsg string `json:"error"`
}

func (e *apiError) message() string {
	if e.Err != "" {
		return e.Err
	}
	return e.ErrorMsg
}

func (c *Client) CreateArticle(ctx context.Context, title, content string) (*models.Article, error) {
	payload, err := json.Marshal(map[string]string{"title": title, "content": content})
	if err != nil {
		return nil, err
	}

	article := &models.Article{}
	if err := c.do(ctx, http.MethodPost, "/api/articles", bytes.NewReader(payload), article); err != nil {
		return nil, err
	}
	return article, nil
}

// MostRecentArticle returns nil without error when no articles exist yet
// (the server responds with JSON null).
func (c *Client) MostRecentArticle(ctx context.Context) (*models.Article, error) {
	var article *models.Article
	if err := c.do(ctx, http.MethodGet, "/api/articles", nil, &article); err != nil {
		return nil, err
	}
	return article, nil
}

func (c *Client) Article(ctx context.Context, id string) (*models.Article, error) {
	article := &models.Article{}
	if err := c.do(ctx, http.MethodGet, "/api/articles/"+id, nil, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (c *Client) ArticlesByUser(ctx context.Context) ([]models.Article, error) {
	var wrapper struct {
		Articles []models.Article `json:"articles"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/getArticlesByUserId", nil, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Articles, nil
}

func (c *Client) Quizzes(ctx context.Context, articleID string) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := c.do(ctx, http.MethodGet, "/api/generate?articleId="+articleID, nil, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var envelope apiError
		if json.Unmarshal(data, &envelope) == nil && envelope.message() != "" {
			return errors.New(envelope.message())
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}

	return nil
}

func (c *Client) timeout() time.Duration {
	if c.RequestTimeout > 0 {
		return c.RequestTimeout
	}
	return defaultRequestTimeout
}

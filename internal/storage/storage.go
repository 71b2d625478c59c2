package storage

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mkarlsen/briefly/internal/models"
)

type Store interface {
	Initialize() error
	Close() error

	// User operations
	UpsertUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByClerkID(ctx context.Context, clerkID string) (*models.User, error)

	// Article operations
	CreateArticle(ctx context.Context, article *models.Article) error
	GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, error)
	MostRecentArticle(ctx context.Context) (*models.Article, error)
	ListArticlesByUser(ctx context.Context, userID uuid.UUID) ([]*models.Article, error)

	// Quiz operations
	CreateQuizzes(ctx context.Context, quizzes []*models.Quiz) error
	ListQuizzesByArticle(ctx context.Context, articleID uuid.UUID) ([]*models.Quiz, error)
}

// IsConnectivityError reports whether err looks like a failure to reach the
// database rather than a query that failed after connecting. Classification
// is by message substring; drivers do not expose a stable error type for
// this.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "Tenant or user not found")
}

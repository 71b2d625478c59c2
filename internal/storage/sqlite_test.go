package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlsen/briefly/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "briefly.db"))
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	t.Cleanup(func() { store.Close() })
	return store
}

func provisionTestUser(t *testing.T, store *SQLiteStore, clerkID string) *models.User {
	t.Helper()
	user, err := store.UpsertUser(context.Background(), &models.User{
		ID:        uuid.New(),
		ClerkID:   clerkID,
		Email:     clerkID + "@example.com",
		Name:      "Reader",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return user
}

func TestUpsertUserIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := provisionTestUser(t, store, "clerk_abc")

	// A second upsert for the same identity must reuse the row and refresh
	// the profile fields.
	second, err := store.UpsertUser(ctx, &models.User{
		ID:        uuid.New(),
		ClerkID:   "clerk_abc",
		Email:     "new@example.com",
		Name:      "Renamed",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "new@example.com", second.Email)
	assert.Equal(t, "Renamed", second.Name)

	found, err := store.GetUserByClerkID(ctx, "clerk_abc")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
}

func TestGetUserByClerkIDAbsent(t *testing.T) {
	store := newTestStore(t)

	user, err := store.GetUserByClerkID(context.Background(), "clerk_nobody")

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestArticleRoundTripAndOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := provisionTestUser(t, store, "clerk_abc")

	base := time.Now().UTC().Truncate(time.Second)
	var last *models.Article
	for i, title := range []string{"first", "second", "third"} {
		article := &models.Article{
			ID:        uuid.New(),
			UserID:    user.ID,
			Title:     title,
			Content:   "content",
			Summary:   "summary",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.CreateArticle(ctx, article))
		last = article
	}

	got, err := store.GetArticle(ctx, last.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "third", got.Title)
	assert.Equal(t, user.ID, got.UserID)

	articles, err := store.ListArticlesByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, "third", articles[0].Title)
	assert.Equal(t, "first", articles[2].Title)

	newest, err := store.MostRecentArticle(ctx)
	require.NoError(t, err)
	require.NotNil(t, newest)
	assert.Equal(t, "third", newest.Title)
}

func TestMostRecentArticleEmptyStore(t *testing.T) {
	store := newTestStore(t)

	article, err := store.MostRecentArticle(context.Background())

	require.NoError(t, err)
	assert.Nil(t, article)
}

func TestListArticlesByUserScoped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := provisionTestUser(t, store, "clerk_owner")
	other := provisionTestUser(t, store, "clerk_other")

	require.NoError(t, store.CreateArticle(ctx, &models.Article{
		ID: uuid.New(), UserID: other.ID, Title: "theirs", Content: "c", CreatedAt: time.Now().UTC(),
	}))

	articles, err := store.ListArticlesByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestQuizRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := provisionTestUser(t, store, "clerk_abc")

	article := &models.Article{
		ID: uuid.New(), UserID: user.ID, Title: "t", Content: "c", CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateArticle(ctx, article))

	now := time.Now().UTC().Truncate(time.Second)
	var quizzes []*models.Quiz
	for i := 0; i < 5; i++ {
		quizzes = append(quizzes, &models.Quiz{
			ID:        uuid.New(),
			ArticleID: article.ID,
			Question:  "q",
			Options:   []string{"a", "b", "c", "d"},
			Answer:    "a",
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	require.NoError(t, store.CreateQuizzes(ctx, quizzes))

	stored, err := store.ListQuizzesByArticle(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, stored, 5)
	assert.Equal(t, []string{"a", "b", "c", "d"}, stored[0].Options)
	assert.Equal(t, "a", stored[0].Answer)
	assert.Equal(t, article.ID, stored[0].ArticleID)
}

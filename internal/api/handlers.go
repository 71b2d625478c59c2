package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkarlsen/briefly/internal/auth"
	"github.com/mkarlsen/briefly/internal/generator"
	"github.com/mkarlsen/briefly/internal/models"
	"github.com/mkarlsen/briefly/internal/storage"
)

type Handler struct {
	store storage.Store
	gen   generator.Generator
	log   *zap.SugaredLogger
}

func NewHandler(store storage.Store, gen generator.Generator, log *zap.SugaredLogger) *Handler {
	return &Handler{store: store, gen: gen, log: log}
}

type createArticleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreateArticle accepts {title, content}, summarizes the content and stores
// the article under the caller's user row, provisioning it if needed.
//
// Error payloads use the "err" key; the history listing route uses "error"
// for its 401. The inconsistency is load-bearing for existing consumers, so
// both are kept as-is.
func (h *Handler) CreateArticle(c *gin.Context) {
	identity := auth.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "Unauthorized"})
		return
	}

	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "Title and content are required"})
		return
	}

	user, err := h.provisionUser(c.Request.Context(), identity)
	if err != nil {
		h.log.Errorw("failed to provision user", "clerkId", identity.SubjectID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "Database connection failed. Please check your DATABASE_URL configuration."})
		return
	}

	summary, err := h.gen.Summarize(c.Request.Context(), req.Content)
	if err != nil {
		h.log.Errorw("summarization failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "server error"})
		return
	}

	article := &models.Article{
		ID:        uuid.New(),
		UserID:    user.ID,
		Title:     req.Title,
		Content:   req.Content,
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.store.CreateArticle(c.Request.Context(), article); err != nil {
		h.log.Errorw("failed to create article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "server error"})
		return
	}

	c.JSON(http.StatusOK, article)
}

// MostRecentArticle returns the newest article system-wide, or JSON null
// when the store is empty. Deliberately not scoped to the caller.
func (h *Handler) MostRecentArticle(c *gin.Context) {
	article, err := h.store.MostRecentArticle(c.Request.Context())
	if err != nil {
		h.log.Errorw("failed to fetch most recent article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "server error"})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) GetArticle(c *gin.Context) {
	identity := auth.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "Invalid article ID"})
		return
	}

	user, err := h.provisionUser(c.Request.Context(), identity)
	if err != nil {
		h.log.Errorw("failed to provision user", "clerkId", identity.SubjectID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "server error"})
		return
	}

	article, err := h.store.GetArticle(c.Request.Context(), id)
	if err != nil {
		h.log.Errorw("failed to fetch article", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "server error"})
		return
	}

	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "Article not found"})
		return
	}

	if article.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"err": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, article)
}

// ListArticlesByUser returns the caller's articles newest first. Database
// failures still carry an empty articles slice so the history view can
// degrade instead of rendering nothing.
func (h *Handler) ListArticlesByUser(c *gin.Context) {
	identity := auth.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	empty := []*models.Article{}

	user, err := h.provisionUser(c.Request.Context(), identity)
	if err != nil {
		h.log.Errorw("failed to provision user", "clerkId", identity.SubjectID, "error", err)
		if storage.IsConnectivityError(err) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"err":      "Database connection failed. Please check your DATABASE_URL and ensure your database is accessible.",
				"articles": empty,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"err":      fmt.Sprintf("Database error: %s", err.Error()),
			"articles": empty,
		})
		return
	}

	articles, err := h.store.ListArticlesByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Errorw("failed to list articles", "userId", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"err":      "Failed to fetch articles from database.",
			"articles": empty,
		})
		return
	}

	if articles == nil {
		articles = empty
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GenerateQuizzes returns the stored quizzes for an article, generating and
// persisting them on first request so repeat visits see the same questions.
func (h *Handler) GenerateQuizzes(c *gin.Context) {
	identity := auth.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "Unauthorized"})
		return
	}

	raw := c.Query("articleId")
	if raw == "" || raw == "undefined" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "Article ID is required"})
		return
	}

	articleID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "Invalid article ID"})
		return
	}

	article, err := h.store.GetArticle(c.Request.Context(), articleID)
	if err != nil {
		h.log.Errorw("failed to fetch article", "id", articleID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "server error"})
		return
	}

	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "Article not found"})
		return
	}

	quizzes, err := h.store.ListQuizzesByArticle(c.Request.Context(), articleID)
	if err != nil {
		h.log.Errorw("failed to list quizzes", "articleId", articleID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "server error"})
		return
	}

	if len(quizzes) > 0 {
		c.JSON(http.StatusOK, quizzes)
		return
	}

	questions, err := h.gen.GenerateQuiz(c.Request.Context(), article.Title, article.Content)
	if err != nil {
		h.log.Errorw("quiz generation failed", "articleId", articleID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "server error"})
		return
	}

	now := time.Now().UTC()
	for _, q := range questions {
		quizzes = append(quizzes, &models.Quiz{
			ID:        uuid.New(),
			ArticleID: articleID,
			Question:  q.Question,
			Options:   q.Options,
			Answer:    q.Answer,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := h.store.CreateQuizzes(c.Request.Context(), quizzes); err != nil {
		h.log.Errorw("failed to persist quizzes", "articleId", articleID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "server error"})
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// provisionUser is the idempotent get-or-provision for the caller's user
// row. Profile fields come from the identity token on every call, so the
// row tracks the provider.
func (h *Handler) provisionUser(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	return h.store.UpsertUser(ctx, &models.User{
		ID:        uuid.New(),
		ClerkID:   identity.SubjectID,
		Email:     identity.Email,
		Name:      identity.Name,
		CreatedAt: time.Now().UTC(),
	})
}

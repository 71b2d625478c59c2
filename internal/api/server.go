package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkarlsen/briefly/internal/auth"
	"github.com/mkarlsen/briefly/internal/generator"
	"github.com/mkarlsen/briefly/internal/storage"
)

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
}

func NewServer(port int, store storage.Store, gen generator.Generator, verifier auth.Verifier, log *zap.SugaredLogger) *Server {
	return &Server{
		router: NewRouter(store, gen, verifier, log),
		port:   port,
	}
}

// NewRouter builds the full route tree. Separate from NewServer so handler
// tests can drive it through httptest.
func NewRouter(store storage.Store, gen generator.Generator, verifier auth.Verifier, log *zap.SugaredLogger) *gin.Engine {
	router := gin.Default()

	// Setup CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler := NewHandler(store, gen, log)

	api := router.Group("/api")
	api.Use(auth.Middleware(verifier))
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		api.POST("/articles", handler.CreateArticle)
		api.GET("/articles", handler.MostRecentArticle)
		api.GET("/articles/:id", handler.GetArticle)
		api.GET("/getArticlesByUserId", handler.ListArticlesByUser)
		api.GET("/generate", handler.GenerateQuizzes)
	}

	return router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mkarlsen/briefly/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            clerk_id VARCHAR(255) UNIQUE NOT NULL,
            email VARCHAR(255) NOT NULL DEFAULT '',
            name VARCHAR(255) NOT NULL DEFAULT '',
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS articles (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id),
            title VARCHAR(255) NOT NULL,
            content TEXT NOT NULL,
            summary TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS quizzes (
            id UUID PRIMARY KEY,
            article_id UUID NOT NULL REFERENCES articles(id),
            question TEXT NOT NULL,
            options TEXT[] NOT NULL,
            answer TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_articles_user_id ON articles(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_article_id ON quizzes(article_id)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

// UpsertUser provisions the row for an external identity in a single
// statement, so a concurrent first request cannot race find-then-create.
func (s *PostgresStore) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
        INSERT INTO users (id, clerk_id, email, name, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (clerk_id) DO UPDATE SET
            email = EXCLUDED.email,
            name = EXCLUDED.name
        RETURNING id, clerk_id, email, name, created_at
    `

	stored := &models.User{}
	err := s.db.QueryRowContext(ctx, query,
		user.ID,
		user.ClerkID,
		user.Email,
		user.Name,
		user.CreatedAt,
	).Scan(
		&stored.ID,
		&stored.ClerkID,
		&stored.Email,
		&stored.Name,
		&stored.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (s *PostgresStore) GetUserByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	query := `
        SELECT id, clerk_id, email, name, created_at
        FROM users
        WHERE clerk_id = $1
    `

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, clerkID).Scan(
		&user.ID,
		&user.ClerkID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *PostgresStore) CreateArticle(ctx context.Context, article *models.Article) error {
	query := `
        INSERT INTO articles (id, user_id, title, content, summary, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := s.db.ExecContext(ctx, query,
		article.ID,
		article.UserID,
		article.Title,
		article.Content,
		article.Summary,
		article.CreatedAt,
	)

	return err
}

func (s *PostgresStore) GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	query := `
        SELECT id, user_id, title, content, summary, created_at
        FROM articles
        WHERE id = $1
    `

	article := &models.Article{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&article.ID,
		&article.UserID,
		&article.Title,
		&article.Content,
		&article.Summary,
		&article.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return article, nil
}

func (s *PostgresStore) MostRecentArticle(ctx context.Context) (*models.Article, error) {
	query := `
        SELECT id, user_id, title, content, summary, created_at
        FROM articles
        ORDER BY created_at DESC
        LIMIT 1
    `

	article := &models.Article{}
	err := s.db.QueryRowContext(ctx, query).Scan(
		&article.ID,
		&article.UserID,
		&article.Title,
		&article.Content,
		&article.Summary,
		&article.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return article, nil
}

func (s *PostgresStore) ListArticlesByUser(ctx context.Context, userID uuid.UUID) ([]*models.Article, error) {
	query := `
        SELECT id, user_id, title, content, summary, created_at
        FROM articles
        WHERE user_id = $1
        ORDER BY created_at DESC
    `

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		article := &models.Article{}
		err := rows.Scan(
			&article.ID,
			&article.UserID,
			&article.Title,
			&article.Content,
			&article.Summary,
			&article.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		articles = append(articles, article)
	}

	return articles, rows.Err()
}

func (s *PostgresStore) CreateQuizzes(ctx context.Context, quizzes []*models.Quiz) error {
	query := `
        INSERT INTO quizzes (id, article_id, question, options, answer, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, quiz := range quizzes {
		_, err := tx.ExecContext(ctx, query,
			quiz.ID,
			quiz.ArticleID,
			quiz.Question,
			pq.Array(quiz.Options),
			quiz.Answer,
			quiz.CreatedAt,
			quiz.UpdatedAt,
		)

		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) ListQuizzesByArticle(ctx context.Context, articleID uuid.UUID) ([]*models.Quiz, error) {
	query := `
        SELECT id, article_id, question, options, answer, created_at, updated_at
        FROM quizzes
        WHERE article_id = $1
        ORDER BY created_at
    `

	rows, err := s.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []*models.Quiz
	for rows.Next() {
		quiz := &models.Quiz{}
		var options []string

		err := rows.Scan(
			&quiz.ID,
			&quiz.ArticleID,
			&quiz.Question,
			pq.Array(&options),
			&quiz.Answer,
			&quiz.CreatedAt,
			&quiz.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		quiz.Options = options
		quizzes = append(quizzes, quiz)
	}

	return quizzes, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

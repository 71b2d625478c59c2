package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mkarlsen/briefly/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            clerk_id TEXT UNIQUE NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            name TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS articles (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            title TEXT NOT NULL,
            content TEXT NOT NULL,
            summary TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(user_id) REFERENCES users(id)
        )`,
		`CREATE TABLE IF NOT EXISTS quizzes (
            id TEXT PRIMARY KEY,
            article_id TEXT NOT NULL,
            question TEXT NOT NULL,
            options TEXT NOT NULL,
            answer TEXT NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(article_id) REFERENCES articles(id)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_articles_user_id ON articles(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_article_id ON quizzes(article_id)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *SQLiteStore) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
        INSERT INTO users (id, clerk_id, email, name, created_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(clerk_id) DO UPDATE SET
            email = excluded.email,
            name = excluded.name
        RETURNING id, clerk_id, email, name, created_at
    `

	stored := &models.User{}
	var id string
	err := s.db.QueryRowContext(ctx, query,
		user.ID.String(),
		user.ClerkID,
		user.Email,
		user.Name,
		user.CreatedAt,
	).Scan(
		&id,
		&stored.ClerkID,
		&stored.Email,
		&stored.Name,
		&stored.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	stored.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (s *SQLiteStore) GetUserByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	query := `
        SELECT id, clerk_id, email, name, created_at
        FROM users
        WHERE clerk_id = ?
    `

	user := &models.User{}
	var id string
	err := s.db.QueryRowContext(ctx, query, clerkID).Scan(
		&id,
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

	user.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *SQLiteStore) CreateArticle(ctx context.Context, article *models.Article) error {
	query := `
        INSERT INTO articles (id, user_id, title, content, summary, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `

	_, err := s.db.ExecContext(ctx, query,
		article.ID.String(),
		article.UserID.String(),
		article.Title,
		article.Content,
		article.Summary,
		article.CreatedAt,
	)

	return err
}

func (s *SQLiteStore) GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	query := `
        SELECT id, user_id, title, content, summary, created_at
        FROM articles
        WHERE id = ?
    `

	return s.scanArticle(s.db.QueryRowContext(ctx, query, id.String()))
}

func (s *SQLiteStore) MostRecentArticle(ctx context.Context) (*models.Article, error) {
	query := `
        SELECT id, user_id, title, content, summary, created_at
        FROM articles
        ORDER BY created_at DESC
        LIMIT 1
    `

	return s.scanArticle(s.db.QueryRowContext(ctx, query))
}

func (s *SQLiteStore) scanArticle(row *sql.Row) (*models.Article, error) {
	article := &models.Article{}
	var id, userID string

	err := row.Scan(
		&id,
		&userID,
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

	if article.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if article.UserID, err = uuid.Parse(userID); err != nil {
		return nil, err
	}

	return article, nil
}

func (s *SQLiteStore) ListArticlesByUser(ctx context.Context, userID uuid.UUID) ([]*models.Article, error) {
	query := `
        SELECT id, user_id, title, content, summary, created_at
        FROM articles
        WHERE user_id = ?
        ORDER BY created_at DESC
    `

	rows, err := s.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		article := &models.Article{}
		var id, owner string

		err := rows.Scan(
			&id,
			&owner,
			&article.Title,
			&article.Content,
			&article.Summary,
			&article.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		if article.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if article.UserID, err = uuid.Parse(owner); err != nil {
			return nil, err
		}

		articles = append(articles, article)
	}

	return articles, rows.Err()
}

func (s *SQLiteStore) CreateQuizzes(ctx context.Context, quizzes []*models.Quiz) error {
	query := `
        INSERT INTO quizzes (id, article_id, question, options, answer, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, quiz := range quizzes {
		optionsJSON, err := json.Marshal(quiz.Options)
		if err != nil {
			tx.Rollback()
			return err
		}

		_, err = tx.ExecContext(ctx, query,
			quiz.ID.String(),
			quiz.ArticleID.String(),
			quiz.Question,
			string(optionsJSON),
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

func (s *SQLiteStore) ListQuizzesByArticle(ctx context.Context, articleID uuid.UUID) ([]*models.Quiz, error) {
	query := `
        SELECT id, article_id, question, options, answer, created_at, updated_at
        FROM quizzes
        WHERE article_id = ?
        ORDER BY created_at
    `

	rows, err := s.db.QueryContext(ctx, query, articleID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []*models.Quiz
	for rows.Next() {
		quiz := &models.Quiz{}
		var id, owner, optionsJSON string

		err := rows.Scan(
			&id,
			&owner,
			&quiz.Question,
			&optionsJSON,
			&quiz.Answer,
			&quiz.CreatedAt,
			&quiz.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		if quiz.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if quiz.ArticleID, err = uuid.Parse(owner); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(optionsJSON), &quiz.Options); err != nil {
			return nil, err
		}

		quizzes = append(quizzes, quiz)
	}

	return quizzes, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

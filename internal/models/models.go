package models

import (
	"time"

	"github.com/google/uuid"
)

// User is one row per external identity. Provisioned lazily on the first
// authenticated request and never deleted.
type User struct {
	ID        uuid.UUID `json:"id"`
	ClerkID   string    `json:"clerkId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Article holds the submitted text plus its generated summary. Immutable
// after creation.
type Article struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

// Quiz is a single multiple-choice question derived from an article.
type Quiz struct {
	ID        uuid.UUID `json:"id"`
	ArticleID uuid.UUID `json:"articleId"`
	Question  string    `json:"question"`
	Options   []string  `json:"options"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

package client

import (
	"context"
	"errors"

	"github.com/mkarlsen/briefly/internal/models"
)

const (
	quizTimeoutMessage   = "Request timed out"
	quizLoadErrorMessage = "Failed to load quiz. Please try again."

	// TotalQuestions is the fixed quiz length; answering the last question
	// moves the flow to results.
	TotalQuestions = 5
)

const (
	StepQuiz    = 1
	StepResults = 4
)

// QuizFlow steps a caller through the five questions of one article's quiz.
type QuizFlow struct {
	api *Client

	ArticleID string
	Quizzes   []models.Quiz
	Index     int
	Step      int
	Loading   bool
	Err       string
}

func NewQuizFlow(api *Client, articleID string) *QuizFlow {
	return &QuizFlow{api: api, ArticleID: articleID, Step: StepQuiz}
}

// Load fetches the quiz. A missing article id (the route param can be the
// literal string "undefined") sets the error state without any request.
func (f *QuizFlow) Load(ctx context.Context) {
	if f.ArticleID == "" || f.ArticleID == "undefined" {
		f.Err = "Article ID is missing"
		return
	}

	f.Loading = true
	f.Err = ""

	quizzes, err := f.api.Quizzes(ctx, f.ArticleID)
	f.Loading = false

	if err != nil {
		if errors.Is(err, ErrTimeout) {
			f.Err = quizTimeoutMessage
		} else {
			f.Err = quizLoadErrorMessage
		}
		return
	}

	f.Quizzes = quizzes
}

// Current returns the active question, or nil once the index has run past
// the loaded quiz.
func (f *QuizFlow) Current() *models.Quiz {
	if f.Index < 0 || f.Index >= len(f.Quizzes) {
		return nil
	}
	return &f.Quizzes[f.Index]
}

// Next records an answered question. Answering the fifth one switches the
// flow to the results step; the step stays there no matter how far the
// index advances afterwards.
func (f *QuizFlow) Next() {
	if f.Index == TotalQuestions-1 {
		f.Step = StepResults
	}
	f.Index++
}

// Restart returns to the first question of the already-loaded quiz.
func (f *QuizFlow) Restart() {
	f.Step = StepQuiz
	f.Index = 0
}

// Reset clears all flow state, as when navigating back home.
func (f *QuizFlow) Reset() {
	f.Quizzes = nil
	f.Index = 0
	f.Step = StepQuiz
	f.Err = ""
	f.Loading = false
}

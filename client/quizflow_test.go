package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizFlowStepsToResultsAfterFiveAnswers(t *testing.T) {
	flow := NewQuizFlow(nil, "some-id")

	for i := 0; i < 4; i++ {
		flow.Next()
		assert.Equal(t, StepQuiz, flow.Step, "after %d answers", i+1)
	}

	flow.Next()
	assert.Equal(t, StepResults, flow.Step)
	assert.Equal(t, 5, flow.Index)

	// Step stays at results no matter how far the index runs on.
	flow.Next()
	flow.Next()
	assert.Equal(t, StepResults, flow.Step)
}

func TestQuizFlowRestart(t *testing.T) {
	flow := NewQuizFlow(nil, "some-id")
	for i := 0; i < 5; i++ {
		flow.Next()
	}
	require.Equal(t, StepResults, flow.Step)

	flow.Restart()
	assert.Equal(t, StepQuiz, flow.Step)
	assert.Equal(t, 0, flow.Index)
}

func TestQuizFlowLoadGuardsMissingArticleID(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	api := &Client{Addr: srv.URL}

	for _, id := range []string{"", "undefined"} {
		flow := NewQuizFlow(api, id)
		flow.Load(context.Background())
		assert.Equal(t, "Article ID is missing", flow.Err)
	}

	assert.Equal(t, int32(0), calls.Load(), "guarded loads must not hit the network")
}

func TestQuizFlowLoadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("articleId"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"question":"q1","options":["a","b","c","d"],"answer":"a"}]`))
	}))
	defer srv.Close()

	flow := NewQuizFlow(&Client{Addr: srv.URL}, "abc")
	flow.Load(context.Background())

	assert.Empty(t, flow.Err)
	assert.False(t, flow.Loading)
	require.Len(t, flow.Quizzes, 1)
	require.NotNil(t, flow.Current())
	assert.Equal(t, "q1", flow.Current().Question)
}

func TestQuizFlowLoadTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	flow := NewQuizFlow(&Client{Addr: srv.URL, RequestTimeout: 20 * time.Millisecond}, "abc")
	flow.Load(context.Background())

	assert.Equal(t, "Request timed out", flow.Err)
	assert.False(t, flow.Loading)
}

func TestQuizFlowLoadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"err":"server error"}`))
	}))
	defer srv.Close()

	flow := NewQuizFlow(&Client{Addr: srv.URL}, "abc")
	flow.Load(context.Background())

	assert.Equal(t, "Failed to load quiz. Please try again.", flow.Err)
}

func TestQuizFlowReset(t *testing.T) {
	flow := NewQuizFlow(nil, "abc")
	flow.Next()
	flow.Err = "stale"

	flow.Reset()

	assert.Equal(t, StepQuiz, flow.Step)
	assert.Equal(t, 0, flow.Index)
	assert.Empty(t, flow.Err)
	assert.Nil(t, flow.Quizzes)
}

func TestQuizFlowCurrentOutOfRange(t *testing.T) {
	flow := NewQuizFlow(nil, "abc")
	assert.Nil(t, flow.Current())
}

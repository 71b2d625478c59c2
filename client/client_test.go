package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateArticleSendsTokenAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/articles", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "My Title", body["title"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"My Title","content":"text","summary":"short"}`))
	}))
	defer srv.Close()

	api := &Client{Addr: srv.URL, Token: "tok"}
	article, err := api.CreateArticle(context.Background(), "My Title", "text")

	require.NoError(t, err)
	assert.Equal(t, "short", article.Summary)
}

func TestCreateArticleSurfacesErrEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"err":"Title and content are required"}`))
	}))
	defer srv.Close()

	api := &Client{Addr: srv.URL}
	_, err := api.CreateArticle(context.Background(), "", "")

	require.Error(t, err)
	assert.Equal(t, "Title and content are required", err.Error())
}

func TestArticlesByUserSurfacesErrorEnvelopeKey(t *testing.T) {
	// The history listing's 401 uses "error" where everything else uses
	// "err"; the client must read both.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	}))
	defer srv.Close()

	api := &Client{Addr: srv.URL}
	_, err := api.ArticlesByUser(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Unauthorized", err.Error())
}

func TestMostRecentArticleNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	api := &Client{Addr: srv.URL}
	article, err := api.MostRecentArticle(context.Background())

	require.NoError(t, err)
	assert.Nil(t, article)
}

package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ConstructionWatch/internal/domain"
)

func TestPublishRuns(t *testing.T) {
	t.Parallel()

	var gotPath, gotChat, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotPath = r.URL.Path
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewNotifier("TOKEN", "42").WithAPIBase(server.URL+"/", server.Client())
	runs := []domain.ScraperRun{
		{Source: "vnexpress", Status: domain.RunCompleted, ArticlesFound: 5, ArticlesProcessed: 3, SuggestionsCreated: 2, DuplicatesSkipped: 1},
		{Source: "hcmcgov", Status: domain.RunFailed, Errors: []string{"fetch articles: 503"}},
	}
	if err := n.PublishRuns(context.Background(), runs); err != nil {
		t.Fatalf("PublishRuns error: %v", err)
	}

	if gotPath != "/botTOKEN/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotChat != "42" {
		t.Fatalf("unexpected chat: %s", gotChat)
	}
	if !strings.Contains(gotText, "vnexpress: completed") || !strings.Contains(gotText, "created 2") || !strings.Contains(gotText, "! fetch articles: 503") {
		t.Fatalf("unexpected text: %q", gotText)
	}
}

func TestPublishRunsErrors(t *testing.T) {
	t.Parallel()

	if err := NewNotifier("", "").PublishRuns(context.Background(), nil); err == nil {
		t.Fatal("expected misconfiguration error")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	n := NewNotifier("t", "c").WithAPIBase(server.URL, server.Client())
	if err := n.PublishRuns(context.Background(), []domain.ScraperRun{{Source: "x"}}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

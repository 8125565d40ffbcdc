package importer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-api/internal/db/memory"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

const openTDBBody = `{
  "response_code": 0,
  "results": [
    {"category": "Science &amp; Nature", "type": "multiple", "difficulty": "hard",
     "question": "What is &quot;Fe&quot;?", "correct_answer": "Iron", "incorrect_answers": ["Tin", "Lead", "Zinc"]},
    {"category": "Science &amp; Nature", "type": "boolean", "difficulty": "easy",
     "question": "Water boils at 100&deg;C at sea level.", "correct_answer": "True", "incorrect_answers": ["False"]}
  ]
}`

func TestOpenTDBClientFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(openTDBBody))
	}))
	defer srv.Close()

	client := NewOpenTDBClient(srv.URL, srv.Client())
	qs, err := client.Fetch(context.Background(), 2, 17, "")
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, `What is "Fe"?`, qs[0].Question)
	assert.Equal(t, "Science & Nature", qs[0].Category)
	assert.Contains(t, gotQuery, "amount=2")
	assert.Contains(t, gotQuery, "category=17")
}

func TestOpenTDBClientResponseCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response_code": 1, "results": []}`))
	}))
	defer srv.Close()

	_, err := NewOpenTDBClient(srv.URL, srv.Client()).Fetch(context.Background(), 5, 17, "")
	assert.ErrorContains(t, err, "response code 1")
}

type stubSource struct {
	questions []OpenTDBQuestion
	category  int
}

func (s *stubSource) Fetch(_ context.Context, amount, category int, _ string) ([]OpenTDBQuestion, error) {
	s.category = category
	if amount < len(s.questions) {
		return s.questions[:amount], nil
	}
	return s.questions, nil
}

func TestImportStoresMappedQuestions(t *testing.T) {
	store := memory.NewStore()
	svc := trivia.NewService(store, store, trivia.ServiceOptions{}, zerolog.New(io.Discard))
	source := &stubSource{questions: []OpenTDBQuestion{
		{Question: "Q1", CorrectAnswer: "A1", Difficulty: "hard"},
		{Question: "Q2", CorrectAnswer: "A2", Difficulty: "unknown"},
	}}

	n, err := New(source, svc, zerolog.New(io.Discard)).Import(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 17, source.category)

	stored, err := store.ListQuestionsByCategory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, trivia.Question{ID: 1, Question: "Q1", Answer: "A1", Difficulty: 5, Category: 1}, stored[0])
	assert.Equal(t, 3, stored[1].Difficulty)
}

func TestImportRejectsUnmappedCategory(t *testing.T) {
	_, err := New(&stubSource{}, nil, zerolog.New(io.Discard)).Import(context.Background(), 99, 5, "")
	assert.ErrorContains(t, err, "no opentdb mapping")
}

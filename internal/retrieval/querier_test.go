package retrieval

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps each text to a fixed 3-dim vector keyed by a substring
type fakeEmbedder struct {
	byKeyword map[string][]float32
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := []float32{0, 0, 1}
		for keyword, v := range f.byKeyword {
			if strings.Contains(text, keyword) {
				vec = v
				break
			}
		}
		out[i] = vec
	}
	return out, nil
}

type fakeCompleter struct {
	answer  string
	prompts []string
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(_ context.Context, prompt string, _ bool) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, nil
}

func (f *fakeCompleter) IsAvailable(context.Context) bool { return true }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestStoreSearchRanksByCosine(t *testing.T) {
	s := NewStore()
	s.Add("about due dates", []float32{1, 0, 0})
	s.Add("about totals", []float32{0, 1, 0})
	s.Add("unrelated", []float32{0, 0, 1})

	results := s.Search([]float32{0.9, 0.1, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "about due dates", results[0])
	assert.Equal(t, "about totals", results[1])
}

func TestStoreSearchTopKBound(t *testing.T) {
	s := NewStore()
	s.Add("a", []float32{1, 0, 0})
	results := s.Search([]float32{1, 0, 0}, 15)
	assert.Len(t, results, 1)
}

func TestVectorQuerier(t *testing.T) {
	embedder := &fakeEmbedder{byKeyword: map[string][]float32{
		"due date": {1, 0, 0},
		"Due Date": {1, 0, 0},
	}}
	completer := &fakeCompleter{answer: `{"found": true, "value": "09/15/2026"}`}
	q := NewVectorQuerier(NewStore(), embedder, completer, quietLogger())

	err := q.IndexDocument(context.Background(), "Page 1\nDue Date 09/15/2026", nil)
	require.NoError(t, err)

	answer, err := q.Query(context.Background(), "What is the due date listed on the bill?", 15)
	require.NoError(t, err)
	assert.True(t, answer.Found)
	assert.Equal(t, "09/15/2026", answer.Value)

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "Excerpts:")
	assert.Contains(t, completer.prompts[0], "Due Date 09/15/2026")
}

func TestVectorQuerierFencedAnswer(t *testing.T) {
	embedder := &fakeEmbedder{}
	completer := &fakeCompleter{answer: "```json\n{\"found\": false, \"value\": null}\n```"}
	q := NewVectorQuerier(NewStore(), embedder, completer, quietLogger())

	require.NoError(t, q.IndexDocument(context.Background(), "some bill text", nil))

	answer, err := q.Query(context.Background(), "anything", 15)
	require.NoError(t, err)
	assert.False(t, answer.Found)
	assert.Empty(t, answer.Value)
}

func TestVectorQuerierUnparsableAnswer(t *testing.T) {
	embedder := &fakeEmbedder{}
	completer := &fakeCompleter{answer: "I could not find it."}
	q := NewVectorQuerier(NewStore(), embedder, completer, quietLogger())

	require.NoError(t, q.IndexDocument(context.Background(), "some bill text", nil))

	answer, err := q.Query(context.Background(), "anything", 15)
	require.NoError(t, err)
	assert.False(t, answer.Found)
}

func TestIndexDocumentEmpty(t *testing.T) {
	q := NewVectorQuerier(NewStore(), &fakeEmbedder{}, &fakeCompleter{}, quietLogger())
	err := q.IndexDocument(context.Background(), "   ", nil)
	assert.Error(t, err)
}

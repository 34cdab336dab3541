package retrieval

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/nmcnair22/billscan/internal/model"
)

// Embedder turns text into vectors
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// OpenAIEmbedder calls the embeddings endpoint of an OpenAI-compatible
// service
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIEmbedder(client *openai.Client, embeddingModel string) *OpenAIEmbedder {
	if embeddingModel == "" {
		embeddingModel = string(openai.AdaEmbeddingV2)
	}
	return &OpenAIEmbedder{
		client: client,
		model:  openai.EmbeddingModel(embeddingModel),
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, model.NewServiceError("embeddings", "create", err)
	}
	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

type entry struct {
	content string
	vector  []float32
}

// Store is an in-memory vector index over one bill's chunks. Vectors are
// normalized on insert so cosine similarity reduces to a dot product.
type Store struct {
	mu      sync.RWMutex
	entries []entry
}

func NewStore() *Store {
	return &Store{}
}

// Add indexes one chunk
func (s *Store) Add(content string, vector []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{content: content, vector: normalize(vector)})
}

// Len reports the number of indexed chunks
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Search returns up to topK chunk contents ranked by cosine similarity to
// the query vector
func (s *Store) Search(vector []float32, topK int) []string {
	query := normalize(vector)

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		content string
		score   float32
	}
	results := make([]scored, 0, len(s.entries))
	for _, e := range s.entries {
		results = append(results, scored{content: e.content, score: dot(query, e.vector)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.content
	}
	return out
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

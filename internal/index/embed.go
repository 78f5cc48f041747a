package index

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	chromem "github.com/philippgille/chromem-go"
	googleoption "google.golang.org/api/option"
)

// GeminiEmbedding returns an embedding function backed by the Gemini
// embedding endpoint. A new genai client is created per call so that the
// caller's context governs the connection and the client is always closed
// after use.
func GeminiEmbedding(apiKey, model string) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		client, err := genai.NewClient(ctx, googleoption.WithAPIKey(apiKey))
		if err != nil {
			return nil, fmt.Errorf("index: genai client: %w", err)
		}
		defer client.Close()

		res, err := client.EmbeddingModel(model).EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, fmt.Errorf("index: embed content: %w", err)
		}
		if res.Embedding == nil || len(res.Embedding.Values) == 0 {
			return nil, fmt.Errorf("index: embedding response contained no values")
		}
		return res.Embedding.Values, nil
	}
}

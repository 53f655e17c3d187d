package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	EmbeddingModel  string
	TranscribeModel string
	Timeout         time.Duration
}

// OpenAIClient talks to any OpenAI-compatible endpoint.
type OpenAIClient struct {
	client          openai.Client
	model           string
	embeddingModel  string
	transcribeModel string
}

func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(1),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{
		client:          openai.NewClient(opts...),
		model:           cfg.Model,
		embeddingModel:  cfg.EmbeddingModel,
		transcribeModel: cfg.TranscribeModel,
	}
}

// Analyze enhances the image, asks the vision model for listing metadata and
// parses the structured reply.
func (c *OpenAIClient) Analyze(ctx context.Context, image []byte, voice string) (*Analysis, error) {
	enhanced, err := Enhance(image)
	if err != nil {
		return nil, err
	}
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(enhanced)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analysisPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart("Artisan's description: " + voice),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
		Temperature: openai.Float(0.4),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformedReply)
	}
	return ParseAnalysis(resp.Choices[0].Message.Content)
}

func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding: empty response")
	}
	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

func (c *OpenAIClient) Transcribe(ctx context.Context, audio io.Reader, filename, contentType string) (string, error) {
	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(audio, filename, contentType),
		Model: openai.AudioModel(c.transcribeModel),
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

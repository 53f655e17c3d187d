// Package ai wraps the hosted models the marketplace relies on: listing
// analysis, text embeddings and speech-to-text.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

var (
	ErrNotConfigured  = errors.New("ai provider not configured")
	ErrMalformedReply = errors.New("malformed analysis reply")
)

// Analysis is the structured listing metadata derived from an image and the
// artisan's own description.
type Analysis struct {
	ArtForm       string `json:"art_form"`
	Title         string `json:"title"`
	PolishedVoice string `json:"polished_voice"`
	MinPrice      int    `json:"min_price"`
	MaxPrice      int    `json:"max_price"`
	Caption       string `json:"caption"`
}

type Analyzer interface {
	Analyze(ctx context.Context, image []byte, voice string) (*Analysis, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, contentType string) (string, error)
}

const analysisPrompt = `You are a curator for an Indian artisan marketplace.
You receive a photo of a handmade artwork and the artisan's own spoken description.
Reply with a single JSON object and nothing else:
{
  "art_form": "traditional art form or craft, e.g. Madhubani, Warli, Pashmina",
  "title": "short emotional title, max 8 words",
  "polished_voice": "the artisan's description corrected and polished, first person, max 80 words",
  "min_price": integer price in INR,
  "max_price": integer price in INR,
  "caption": "social media caption with 3-5 hashtags"
}`

type analysisReply struct {
	ArtForm       string  `json:"art_form"`
	Title         string  `json:"title"`
	PolishedVoice string  `json:"polished_voice"`
	MinPrice      float64 `json:"min_price"`
	MaxPrice      float64 `json:"max_price"`
	Caption       string  `json:"caption"`
}

// ParseAnalysis extracts an Analysis from a model reply. Code fences and
// prose around the JSON object are tolerated.
func ParseAnalysis(content string) (*Analysis, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	var reply analysisReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
		}
		if err2 := json.Unmarshal([]byte(content[start:end+1]), &reply); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err2)
		}
	}

	a := &Analysis{
		ArtForm:       strings.TrimSpace(reply.ArtForm),
		Title:         strings.TrimSpace(reply.Title),
		PolishedVoice: strings.TrimSpace(reply.PolishedVoice),
		MinPrice:      int(math.Round(reply.MinPrice)),
		MaxPrice:      int(math.Round(reply.MaxPrice)),
		Caption:       strings.TrimSpace(reply.Caption),
	}
	switch {
	case a.ArtForm == "":
		return nil, fmt.Errorf("%w: missing art_form", ErrMalformedReply)
	case a.Title == "":
		return nil, fmt.Errorf("%w: missing title", ErrMalformedReply)
	case a.MinPrice <= 0 || a.MaxPrice <= 0:
		return nil, fmt.Errorf("%w: prices must be positive", ErrMalformedReply)
	case a.MinPrice > a.MaxPrice:
		return nil, fmt.Errorf("%w: min_price above max_price", ErrMalformedReply)
	}
	return a, nil
}

// Unconfigured fails every call with ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) Analyze(context.Context, []byte, string) (*Analysis, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) Embed(context.Context, string) ([]float32, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) Transcribe(context.Context, io.Reader, string, string) (string, error) {
	return "", ErrNotConfigured
}

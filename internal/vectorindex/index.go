// Package vectorindex stores artwork embeddings for buyer recommendations.
package vectorindex

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("vector index not configured")

// Entry is one published artwork in the index, keyed by artwork id.
type Entry struct {
	ID     uint
	Vector []float32
	Tag    string
	Price  int
	Artist string
}

type Hit struct {
	ID    uint
	Score float32
	Tag   string
	Price int
}

type Index interface {
	Upsert(ctx context.Context, e Entry) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, vector []float32, limit int) ([]Hit, error)
}

type Unconfigured struct{}

func (Unconfigured) Upsert(context.Context, Entry) error { return ErrNotConfigured }

func (Unconfigured) Delete(context.Context, uint) error { return ErrNotConfigured }

func (Unconfigured) Search(context.Context, []float32, int) ([]Hit, error) {
	return nil, ErrNotConfigured
}

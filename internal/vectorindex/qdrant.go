package vectorindex

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qdrant/go-client/qdrant"
)

type QdrantConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	Dimensions uint64
}

// Qdrant stores entries as points whose id is the artwork id and whose
// payload carries tag, price and artist.
type Qdrant struct {
	client     *qdrant.Client
	collection string
}

// NewQdrant connects and creates the collection if it does not exist.
func NewQdrant(ctx context.Context, cfg QdrantConfig) (*Qdrant, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}

	exists, err := client.CollectionExists(ctx, cfg.Collection)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("qdrant collection check: %w", err)
	}
	if !exists {
		err = client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: cfg.Collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     cfg.Dimensions,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("qdrant create collection: %w", err)
		}
		slog.Info("qdrant collection created", "collection", cfg.Collection, "dimensions", cfg.Dimensions)
	}

	return &Qdrant{client: client, collection: cfg.Collection}, nil
}

func (q *Qdrant) Upsert(ctx context.Context, e Entry) error {
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewIDNum(uint64(e.ID)),
			Vectors: qdrant.NewVectors(e.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"tag":    e.Tag,
				"price":  int64(e.Price),
				"artist": e.Artist,
			}),
		}},
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert %d: %w", e.ID, err)
	}
	return nil
}

func (q *Qdrant) Delete(ctx context.Context, id uint) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrant.NewPointsSelector(qdrant.NewIDNum(uint64(id))),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete %d: %w", id, err)
	}
	return nil
}

func (q *Qdrant) Search(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query: %w", err)
	}

	hits := make([]Hit, 0, len(points))
	for _, p := range points {
		hit := Hit{ID: uint(p.GetId().GetNum()), Score: p.GetScore()}
		if v, ok := p.GetPayload()["tag"]; ok {
			hit.Tag = v.GetStringValue()
		}
		if v, ok := p.GetPayload()["price"]; ok {
			hit.Price = int(v.GetIntegerValue())
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (q *Qdrant) Close() error {
	return q.client.Close()
}

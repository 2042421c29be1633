package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// CourseCatalog stores embedded course-catalog chunks in Qdrant and finds
// the ones closest to a résumé.
type CourseCatalog interface {
	InitCollection(ctx context.Context) error
	UpsertChunk(ctx context.Context, source string, index int, text string, embedding []float32) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error)
	DeleteSource(ctx context.Context, source string) error
}

type SearchResult struct {
	ID     string
	Score  float32
	Text   string
	Source string
}

// catalogNamespace seeds deterministic point IDs so re-ingesting a source
// overwrites its chunks instead of duplicating them.
var catalogNamespace = uuid.MustParse("5b0f3a36-8f0e-4c5e-9d43-6f1f9e2a7c11")

const embeddingSize = 768 // text-embedding-004

type courseCatalog struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewCourseCatalog(urlStr, apiKey, collectionName string) (CourseCatalog, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// gRPC port by default
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &courseCatalog{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingSize,
	}, nil
}

// ChunkPointID derives the Qdrant point ID of chunk index of source.
func ChunkPointID(source string, index int) string {
	return uuid.NewSHA1(catalogNamespace, []byte(fmt.Sprintf("%s#%d", source, index))).String()
}

// InitCollection implements CourseCatalog.
func (c *courseCatalog) InitCollection(ctx context.Context) error {
	exists, err := c.client.CollectionExists(ctx, c.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Printf("✅ Qdrant collection '%s' already exists\n", c.collectionName)
		return nil
	}

	err = c.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: c.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     c.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", c.collectionName)
	return nil
}

// UpsertChunk implements CourseCatalog.
func (c *courseCatalog) UpsertChunk(ctx context.Context, source string, index int, text string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(ChunkPointID(source, index)),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"source": source,
			"chunk":  int64(index),
			"text":   text,
		}),
	}

	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchSimilar implements CourseCatalog.
func (c *courseCatalog) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error) {
	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, SearchResult{
			ID:     point.GetId().GetUuid(),
			Score:  point.Score,
			Text:   payloadString(point.Payload, "text"),
			Source: payloadString(point.Payload, "source"),
		})
	}

	return results, nil
}

// DeleteSource implements CourseCatalog.
func (c *courseCatalog) DeleteSource(ctx context.Context, source string) error {
	_, err := c.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: c.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("source", source),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete source %s: %w", source, err)
	}

	return nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

package vector

import (
	"context"
	"crypto/tls"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// QdrantConfig describes how to reach Qdrant over gRPC.
// Cloud clusters need UseTLS and an APIKey.
type QdrantConfig struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

// QdrantProvider implements Provider on the Qdrant gRPC API
type QdrantProvider struct {
	cfg         QdrantConfig
	grpcConn    *grpc.ClientConn
	points      qdrant.PointsClient
	collections qdrant.CollectionsClient
}

// NewQdrantProvider creates a provider. Default: localhost:6334 (gRPC port)
func NewQdrantProvider(cfg QdrantConfig) *QdrantProvider {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	return &QdrantProvider{cfg: cfg}
}

// apiKeyInterceptor attaches the api-key header Qdrant Cloud expects
func apiKeyInterceptor(key string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", key)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// Initialize opens the gRPC connection and checks it with a health call
func (p *QdrantProvider) Initialize(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	creds := insecure.NewCredentials()
	if p.cfg.UseTLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	opts := []grpc.DialOption{grpc.WithTransportCredentials(creds)}
	if p.cfg.APIKey != "" {
		opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(p.cfg.APIKey)))
	}

	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	p.grpcConn = conn
	p.points = qdrant.NewPointsClient(conn)
	p.collections = qdrant.NewCollectionsClient(conn)

	if _, err := qdrant.NewQdrantClient(conn).HealthCheck(ctx, &qdrant.HealthCheckRequest{}); err != nil {
		return fmt.Errorf("qdrant health check failed: %w", err)
	}

	log.Info().Str("address", address).Bool("tls", p.cfg.UseTLS).Msg("connected to Qdrant")
	return nil
}

// EnsureCollection creates a cosine collection when missing
func (p *QdrantProvider) EnsureCollection(ctx context.Context, name string, vectorSize int) error {
	exists, err := p.collectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = p.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(vectorSize),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", name).Int("vector_size", vectorSize).Msg("vector collection created")
	return nil
}

// Upsert inserts or updates points
func (p *QdrantProvider) Upsert(ctx context.Context, collection string, points []Point) error {
	qdrantPoints := make([]*qdrant.PointStruct, len(points))

	for i, point := range points {
		payload := make(map[string]*qdrant.Value, len(point.Payload))
		for key, val := range point.Payload {
			payload[key] = convertToQdrantValue(val)
		}

		qdrantPoints[i] = &qdrant.PointStruct{
			Id: &qdrant.PointId{
				PointIdOptions: &qdrant.PointId_Uuid{Uuid: point.ID},
			},
			Vectors: &qdrant.Vectors{
				VectorsOptions: &qdrant.Vectors_Vector{
					Vector: &qdrant.Vector{Data: point.Vector},
				},
			},
			Payload: payload,
		}
	}

	wait := true
	_, err := p.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           &wait,
		Points:         qdrantPoints,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// Delete removes the points matching filter. A nil filter is refused
// so a collection is never emptied by accident.
func (p *QdrantProvider) Delete(ctx context.Context, collection string, filter *Filter) error {
	selector := convertFilter(filter)
	if selector == nil {
		return fmt.Errorf("delete from %s: empty filter", collection)
	}

	wait := true
	_, err := p.points.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: selector},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

// Search performs similarity search
func (p *QdrantProvider) Search(ctx context.Context, collection string, query []float32, limit int, minScore float32, filter *Filter) ([]SearchResult, error) {
	searchParams := &qdrant.SearchPoints{
		CollectionName: collection,
		Vector:         query,
		Limit:          uint64(limit),
		ScoreThreshold: &minScore,
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
		Filter: convertFilter(filter),
	}

	response, err := p.points.Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]SearchResult, len(response.Result))
	for i, hit := range response.Result {
		payload := make(map[string]interface{}, len(hit.Payload))
		for key, val := range hit.Payload {
			payload[key] = convertFromQdrantValue(val)
		}

		results[i] = SearchResult{
			ID:      hit.Id.GetUuid(),
			Score:   hit.Score,
			Payload: payload,
		}
	}
	return results, nil
}

// Close closes the gRPC connection
func (p *QdrantProvider) Close() error {
	if p.grpcConn != nil {
		return p.grpcConn.Close()
	}
	return nil
}

func (p *QdrantProvider) GetProviderType() string {
	if p.cfg.UseTLS {
		return "qdrant_cloud"
	}
	return "qdrant_self_hosted"
}

func (p *QdrantProvider) collectionExists(ctx context.Context, name string) (bool, error) {
	response, err := p.collections.List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return false, fmt.Errorf("failed to list collections: %w", err)
	}

	for _, collection := range response.Collections {
		if collection.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func convertFilter(filter *Filter) *qdrant.Filter {
	if filter == nil || (len(filter.Must) == 0 && len(filter.MustNot) == 0) {
		return nil
	}
	return &qdrant.Filter{
		Must:    keywordConditions(filter.Must),
		MustNot: keywordConditions(filter.MustNot),
	}
}

func keywordConditions(conds []Condition) []*qdrant.Condition {
	if len(conds) == 0 {
		return nil
	}
	out := make([]*qdrant.Condition, len(conds))
	for i, cond := range conds {
		out[i] = &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key: cond.Key,
					Match: &qdrant.Match{
						MatchValue: &qdrant.Match_Keyword{Keyword: cond.Match},
					},
				},
			},
		}
	}
	return out
}

func convertToQdrantValue(val interface{}) *qdrant.Value {
	switch v := val.(type) {
	case string:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: v}}
	case int:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(v)}}
	case int64:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: v}}
	case float64:
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: v}}
	case bool:
		return &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: v}}
	default:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: fmt.Sprintf("%v", v)}}
	}
}

func convertFromQdrantValue(val *qdrant.Value) interface{} {
	switch v := val.Kind.(type) {
	case *qdrant.Value_StringValue:
		return v.StringValue
	case *qdrant.Value_IntegerValue:
		return v.IntegerValue
	case *qdrant.Value_DoubleValue:
		return v.DoubleValue
	case *qdrant.Value_BoolValue:
		return v.BoolValue
	default:
		return nil
	}
}

// Package dynamodb implements ports.Store against a single DynamoDB table
// using a PK/SK/GSI1 single-table design. Vector search has
// no native DynamoDB primitive, so it is done by scanning an owner's engram
// partition and scoring client-side — acceptable at the scale a self-hosted
// memory engine's single-owner partitions reach, and the same tradeoff the
// embedded store's chromem-go index exists to avoid at larger scale.
package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/application/services/mathkernel"
	"mnemosyne/domain/config"
	"mnemosyne/domain/core"
)

// Store implements ports.Store against DynamoDB.
type Store struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
	cache     *EngramCache // may be nil
}

// New returns a DynamoDB-backed store. cache is optional; pass nil to skip
// the read-through cache in front of GetEngram.
func New(client *dynamodb.Client, tableName string, logger *zap.Logger, cache *EngramCache) *Store {
	return &Store{client: client, tableName: tableName, logger: logger, cache: cache}
}

// --- item shapes ---

type engramItem struct {
	PK          string                 `dynamodbav:"PK"`
	SK          string                 `dynamodbav:"SK"`
	GSI1PK      string                 `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK      string                 `dynamodbav:"GSI1SK,omitempty"`
	EntityType  string                 `dynamodbav:"EntityType"`
	ID          string                 `dynamodbav:"Id"`
	OwnerID     string                 `dynamodbav:"OwnerId"`
	Content     string                 `dynamodbav:"Content"`
	ContentHash string                 `dynamodbav:"ContentHash"`
	Strand      string                 `dynamodbav:"Strand"`
	Tags        []string               `dynamodbav:"Tags"`
	Metadata    map[string]interface{} `dynamodbav:"Metadata"`
	Embedding   []float64              `dynamodbav:"Embedding"`
	Signal      float64                `dynamodbav:"Signal"`
	PulseRate   float64                `dynamodbav:"PulseRate"`
	AccessCount int                    `dynamodbav:"AccessCount"`
	Version     int                    `dynamodbav:"Version"`
	CreatedAt   string                 `dynamodbav:"CreatedAt"`
	UpdatedAt   string                 `dynamodbav:"UpdatedAt"`
	LastAccess  string                 `dynamodbav:"LastAccessedAt"`
}

func toEngramItem(e *core.Engram) engramItem {
	embedding := make([]float64, len(e.Embedding()))
	for i, v := range e.Embedding() {
		embedding[i] = float64(v)
	}
	return engramItem{
		PK:          ownerPK(e.OwnerID()),
		SK:          engramSK(e.ID()),
		GSI1PK:      contentHashGSI1PK(e.OwnerID(), e.ContentHash()),
		GSI1SK:      "ENGRAM",
		EntityType:  "ENGRAM",
		ID:          e.ID(),
		OwnerID:     e.OwnerID(),
		Content:     e.Content(),
		ContentHash: e.ContentHash(),
		Strand:      string(e.Strand()),
		Tags:        e.Tags(),
		Metadata:    e.Metadata(),
		Embedding:   embedding,
		Signal:      e.Signal(),
		PulseRate:   e.PulseRate(),
		AccessCount: e.AccessCount(),
		Version:     e.Version(),
		CreatedAt:   e.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:   e.UpdatedAt().Format(time.RFC3339Nano),
		LastAccess:  e.LastAccessedAt().Format(time.RFC3339Nano),
	}
}

func fromEngramItem(it engramItem) *core.Engram {
	embedding := make([]float32, len(it.Embedding))
	for i, v := range it.Embedding {
		embedding[i] = float32(v)
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	lastAccess, _ := time.Parse(time.RFC3339Nano, it.LastAccess)
	return core.ReconstructEngram(
		it.ID, it.OwnerID, it.Content, it.ContentHash, config.Strand(it.Strand), it.Tags, it.Metadata, embedding,
		it.Signal, it.PulseRate, it.AccessCount, it.Version, createdAt, updatedAt, lastAccess,
	)
}

// --- EngramStore ---

func (s *Store) SaveEngram(ctx context.Context, e *core.Engram) error {
	av, err := attributevalue.MarshalMap(toEngramItem(e))
	if err != nil {
		return fmt.Errorf("dynamodb: marshal engram: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: aws.String(s.tableName), Item: av}); err != nil {
		return fmt.Errorf("dynamodb: save engram: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(e.OwnerID(), e.ID())
	}
	return nil
}

func (s *Store) GetEngram(ctx context.Context, ownerID, id string) (*core.Engram, error) {
	if s.cache != nil {
		if e, ok := s.cache.Get(ownerID, id); ok {
			return e, nil
		}
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: engramSK(id)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: get engram: %w", err)
	}
	if len(result.Item) == 0 {
		return nil, nil
	}

	var item engramItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("dynamodb: unmarshal engram: %w", err)
	}
	e := fromEngramItem(item)
	if s.cache != nil {
		s.cache.Set(e)
	}
	return e, nil
}

func (s *Store) DeleteEngram(ctx context.Context, ownerID, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: engramSK(id)},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb: delete engram: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ownerID, id)
	}
	return nil
}

func (s *Store) ListEngrams(ctx context.Context, ownerID string) ([]*core.Engram, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
			":sk": &types.AttributeValueMemberS{Value: "ENGRAM#"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: list engrams: %w", err)
	}

	out := make([]*core.Engram, 0, len(result.Items))
	for _, raw := range result.Items {
		var item engramItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("dynamodb: skipping malformed engram item", zap.Error(err))
			continue
		}
		out = append(out, fromEngramItem(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out, nil
}

// VectorSearch scans the owner's engram partition and scores every engram
// client-side, skipping those outside strand when strand is non-empty.
func (s *Store) VectorSearch(ctx context.Context, ownerID string, embedding []float32, topK int, strand config.Strand) ([]ports.ScoredEngram, error) {
	all, err := s.ListEngrams(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	scored := make([]ports.ScoredEngram, 0, len(all))
	for _, e := range all {
		if strand != "" && e.Strand() != strand {
			continue
		}
		scored = append(scored, ports.ScoredEngram{Engram: e, Score: mathkernel.CosineToUnit(mathkernel.Cosine(embedding, e.Embedding()))})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func (s *Store) FindByContentHash(ctx context.Context, ownerID, contentHash string) (*core.Engram, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String(gsi1IndexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: contentHashGSI1PK(ownerID, contentHash)},
			":sk": &types.AttributeValueMemberS{Value: "ENGRAM"},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: find by content hash: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, nil
	}
	var item engramItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("dynamodb: unmarshal engram: %w", err)
	}
	return fromEngramItem(item), nil
}

// Close is a no-op; the DynamoDB client owns no resources this store must
// release.
func (s *Store) Close(_ context.Context) error {
	return nil
}

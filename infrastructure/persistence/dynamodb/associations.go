package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/domain/core"
)

// --- synapses ---

type synapseItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	EntityType   string `dynamodbav:"EntityType"`
	OwnerID      string `dynamodbav:"OwnerId"`
	SourceID     string `dynamodbav:"SourceId"`
	TargetID     string `dynamodbav:"TargetId"`
	Weight       float64 `dynamodbav:"Weight"`
	FormedAt     string `dynamodbav:"FormedAt"`
	ReinforcedAt string `dynamodbav:"ReinforcedAt"`
}

func (s *Store) SaveSynapse(ctx context.Context, syn *core.Synapse) error {
	item := synapseItem{
		PK: ownerPK(syn.OwnerID()), SK: synapseSK(syn.SourceID(), syn.TargetID()), EntityType: "SYNAPSE",
		OwnerID: syn.OwnerID(), SourceID: syn.SourceID(), TargetID: syn.TargetID(), Weight: syn.Weight(),
		FormedAt: syn.FormedAt().Format(time.RFC3339Nano), ReinforcedAt: syn.ReinforcedAt().Format(time.RFC3339Nano),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal synapse: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: aws.String(s.tableName), Item: av}); err != nil {
		return fmt.Errorf("dynamodb: save synapse: %w", err)
	}
	return nil
}

func (s *Store) GetSynapse(ctx context.Context, ownerID, sourceID, targetID string) (*core.Synapse, error) {
	for _, sk := range []string{synapseSK(sourceID, targetID), synapseSK(targetID, sourceID)} {
		result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
				"SK": &types.AttributeValueMemberS{Value: sk},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("dynamodb: get synapse: %w", err)
		}
		if len(result.Item) == 0 {
			continue
		}
		var item synapseItem
		if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal synapse: %w", err)
		}
		return toSynapse(item), nil
	}
	return nil, nil
}

func (s *Store) ListSynapsesFrom(ctx context.Context, ownerID, engramID string) ([]*core.Synapse, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
			":sk": &types.AttributeValueMemberS{Value: "SYNAPSE#"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: list synapses: %w", err)
	}
	var out []*core.Synapse
	for _, raw := range result.Items {
		var item synapseItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("dynamodb: skipping malformed synapse item", zap.Error(err))
			continue
		}
		if item.SourceID == engramID || item.TargetID == engramID {
			out = append(out, toSynapse(item))
		}
	}
	return out, nil
}

func (s *Store) DeleteSynapsesForEngram(ctx context.Context, ownerID, engramID string) error {
	syns, err := s.ListSynapsesFrom(ctx, ownerID, engramID)
	if err != nil {
		return err
	}
	for _, syn := range syns {
		_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
				"SK": &types.AttributeValueMemberS{Value: synapseSK(syn.SourceID(), syn.TargetID())},
			},
		})
		if err != nil {
			return fmt.Errorf("dynamodb: delete synapse: %w", err)
		}
	}
	return nil
}

func toSynapse(item synapseItem) *core.Synapse {
	formedAt, _ := time.Parse(time.RFC3339Nano, item.FormedAt)
	reinforcedAt, _ := time.Parse(time.RFC3339Nano, item.ReinforcedAt)
	return core.ReconstructSynapse(item.OwnerID, item.SourceID, item.TargetID, item.Weight, formedAt, reinforcedAt)
}

// --- chronicles ---

type chronicleItem struct {
	PK             string                 `dynamodbav:"PK"`
	SK             string                 `dynamodbav:"SK"`
	GSI1PK         string                 `dynamodbav:"GSI1PK"`
	GSI1SK         string                 `dynamodbav:"GSI1SK"`
	EntityType     string                 `dynamodbav:"EntityType"`
	ID             string                 `dynamodbav:"Id"`
	OwnerID        string                 `dynamodbav:"OwnerId"`
	Entity         string                 `dynamodbav:"Entity"`
	Attribute      string                 `dynamodbav:"Attribute"`
	Value          string                 `dynamodbav:"Value"`
	Certainty      float64                `dynamodbav:"Certainty"`
	EffectiveFrom  string                 `dynamodbav:"EffectiveFrom"`
	EffectiveUntil string                 `dynamodbav:"EffectiveUntil,omitempty"`
	RecordedAt     string                 `dynamodbav:"RecordedAt"`
	Metadata       map[string]interface{} `dynamodbav:"Metadata"`
}

func (s *Store) SaveChronicle(ctx context.Context, c *core.Chronicle) error {
	item := chronicleItem{
		PK: ownerPK(c.OwnerID()), SK: chronicleSK(c.ID()),
		GSI1PK: entityGSI1PK(c.OwnerID(), c.Entity()), GSI1SK: chronicleGSI1SK(c.Attribute()),
		EntityType: "CHRONICLE", ID: c.ID(), OwnerID: c.OwnerID(), Entity: c.Entity(), Attribute: c.Attribute(),
		Value: c.Value(), Certainty: c.Certainty(), EffectiveFrom: c.EffectiveFrom().Format(time.RFC3339Nano),
		RecordedAt: c.RecordedAt().Format(time.RFC3339Nano), Metadata: c.Metadata(),
	}
	if c.EffectiveUntil() != nil {
		item.EffectiveUntil = c.EffectiveUntil().Format(time.RFC3339Nano)
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal chronicle: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: aws.String(s.tableName), Item: av}); err != nil {
		return fmt.Errorf("dynamodb: save chronicle: %w", err)
	}
	return nil
}

func (s *Store) GetChronicle(ctx context.Context, ownerID, id string) (*core.Chronicle, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: chronicleSK(id)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: get chronicle: %w", err)
	}
	if len(result.Item) == 0 {
		return nil, nil
	}
	var item chronicleItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("dynamodb: unmarshal chronicle: %w", err)
	}
	return toChronicle(item), nil
}

func (s *Store) GetCurrentChronicle(ctx context.Context, ownerID, entity, attribute string) (*core.Chronicle, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(entityGSI1PK(ownerID, entity))).
		And(expression.Key("GSI1SK").Equal(expression.Value(chronicleGSI1SK(attribute))))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("dynamodb: build current-chronicle expression: %w", err)
	}
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(gsi1IndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: get current chronicle: %w", err)
	}
	for _, raw := range result.Items {
		var item chronicleItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			continue
		}
		c := toChronicle(item)
		if c.IsCurrent() {
			return c, nil
		}
	}
	return nil, nil
}

func (s *Store) QueryChronicles(ctx context.Context, q ports.ChronicleQuery) ([]*core.Chronicle, error) {
	var out []*core.Chronicle

	if q.Entity != "" {
		keyCond := expression.Key("GSI1PK").Equal(expression.Value(entityGSI1PK(q.OwnerID, q.Entity)))
		if q.Attribute != "" {
			keyCond = keyCond.And(expression.Key("GSI1SK").Equal(expression.Value(chronicleGSI1SK(q.Attribute))))
		}
		expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
		if err != nil {
			return nil, fmt.Errorf("dynamodb: build chronicle-query expression: %w", err)
		}
		result, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName: aws.String(s.tableName), IndexName: aws.String(gsi1IndexName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		if err != nil {
			return nil, fmt.Errorf("dynamodb: query chronicles: %w", err)
		}
		for _, raw := range result.Items {
			var item chronicleItem
			if err := attributevalue.UnmarshalMap(raw, &item); err == nil {
				out = append(out, toChronicle(item))
			}
		}
	} else {
		keyCond := expression.Key("PK").Equal(expression.Value(ownerPK(q.OwnerID))).
			And(expression.Key("SK").BeginsWith("CHRONICLE#"))
		expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
		if err != nil {
			return nil, fmt.Errorf("dynamodb: build chronicle-query expression: %w", err)
		}
		result, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		if err != nil {
			return nil, fmt.Errorf("dynamodb: query chronicles: %w", err)
		}
		for _, raw := range result.Items {
			var item chronicleItem
			if err := attributevalue.UnmarshalMap(raw, &item); err == nil {
				out = append(out, toChronicle(item))
			}
		}
	}

	filtered := out[:0]
	for _, c := range out {
		if q.AsOf != nil && !c.MatchesAt(*q.AsOf) {
			continue
		}
		if q.From != nil && c.EffectiveFrom().Before(*q.From) {
			continue
		}
		if q.To != nil && c.EffectiveFrom().After(*q.To) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered, nil
}

func (s *Store) DeleteChronicle(ctx context.Context, ownerID, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: chronicleSK(id)},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb: delete chronicle: %w", err)
	}
	return nil
}

func toChronicle(item chronicleItem) *core.Chronicle {
	effectiveFrom, _ := time.Parse(time.RFC3339Nano, item.EffectiveFrom)
	recordedAt, _ := time.Parse(time.RFC3339Nano, item.RecordedAt)
	var effectiveUntil *time.Time
	if item.EffectiveUntil != "" {
		t, err := time.Parse(time.RFC3339Nano, item.EffectiveUntil)
		if err == nil {
			effectiveUntil = &t
		}
	}
	return core.ReconstructChronicle(item.ID, item.OwnerID, item.Entity, item.Attribute, item.Value,
		item.Certainty, effectiveFrom, effectiveUntil, recordedAt, item.Metadata)
}

// --- nexuses ---

type nexusItem struct {
	PK             string                 `dynamodbav:"PK"`
	SK             string                 `dynamodbav:"SK"`
	EntityType     string                 `dynamodbav:"EntityType"`
	ID             string                 `dynamodbav:"Id"`
	OwnerID        string                 `dynamodbav:"OwnerId"`
	OriginID       string                 `dynamodbav:"OriginId"`
	LinkedID       string                 `dynamodbav:"LinkedId"`
	BondType       string                 `dynamodbav:"BondType"`
	Strength       float64                `dynamodbav:"Strength"`
	EffectiveFrom  string                 `dynamodbav:"EffectiveFrom"`
	EffectiveUntil string                 `dynamodbav:"EffectiveUntil,omitempty"`
	Metadata       map[string]interface{} `dynamodbav:"Metadata"`
}

func (s *Store) SaveNexus(ctx context.Context, n *core.Nexus) error {
	item := nexusItem{
		PK: ownerPK(n.OwnerID()), SK: nexusSK(n.ID()), EntityType: "NEXUS",
		ID: n.ID(), OwnerID: n.OwnerID(), OriginID: n.OriginID(), LinkedID: n.LinkedID(), BondType: n.BondType(),
		Strength: n.Strength(), EffectiveFrom: n.EffectiveFrom().Format(time.RFC3339Nano), Metadata: n.Metadata(),
	}
	if n.EffectiveUntil() != nil {
		item.EffectiveUntil = n.EffectiveUntil().Format(time.RFC3339Nano)
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal nexus: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: aws.String(s.tableName), Item: av}); err != nil {
		return fmt.Errorf("dynamodb: save nexus: %w", err)
	}
	return nil
}

func (s *Store) listNexuses(ctx context.Context, ownerID string) ([]*core.Nexus, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
			":sk": &types.AttributeValueMemberS{Value: "NEXUS#"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: list nexuses: %w", err)
	}
	var out []*core.Nexus
	for _, raw := range result.Items {
		var item nexusItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			continue
		}
		effectiveFrom, _ := time.Parse(time.RFC3339Nano, item.EffectiveFrom)
		var effectiveUntil *time.Time
		if item.EffectiveUntil != "" {
			if t, err := time.Parse(time.RFC3339Nano, item.EffectiveUntil); err == nil {
				effectiveUntil = &t
			}
		}
		out = append(out, core.ReconstructNexus(item.ID, item.OwnerID, item.OriginID, item.LinkedID, item.BondType,
			item.Strength, effectiveFrom, effectiveUntil, item.Metadata))
	}
	return out, nil
}

func (s *Store) ListNexusesFrom(ctx context.Context, ownerID, chronicleID string) ([]*core.Nexus, error) {
	all, err := s.listNexuses(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var out []*core.Nexus
	for _, n := range all {
		if n.OriginID() == chronicleID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) ListNexusesTo(ctx context.Context, ownerID, chronicleID string) ([]*core.Nexus, error) {
	all, err := s.listNexuses(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var out []*core.Nexus
	for _, n := range all {
		if n.LinkedID() == chronicleID {
			out = append(out, n)
		}
	}
	return out, nil
}

// Package eventbridge publishes domain events to AWS EventBridge.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"mnemosyne/domain/events"
)

const eventSource = "mnemosyne"

// Publisher implements ports.EventBus against AWS EventBridge.
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// New returns an EventBridge-backed publisher.
func New(client *eventbridge.Client, eventBusName string, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, eventBusName: eventBusName, logger: logger}
}

// Publish sends a single domain event as one PutEvents entry.
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("eventbridge: marshal event: %w", err)
	}

	entry := types.PutEventsRequestEntry{
		EventBusName: aws.String(p.eventBusName),
		Source:       aws.String(eventSource),
		DetailType:   aws.String(event.GetEventType()),
		Detail:       aws.String(string(data)),
		Time:         aws.Time(event.GetTimestamp()),
		Resources:    []string{fmt.Sprintf("arn:aws:mnemosyne::%s", event.GetAggregateID())},
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: []types.PutEventsRequestEntry{entry}})
	if err != nil {
		return fmt.Errorf("eventbridge: publish event: %w", err)
	}
	if result.FailedEntryCount > 0 && len(result.Entries) > 0 {
		return fmt.Errorf("eventbridge: publish failed: %s", aws.ToString(result.Entries[0].ErrorMessage))
	}

	p.logger.Debug("event published",
		zap.String("eventType", event.GetEventType()),
		zap.String("aggregateId", event.GetAggregateID()),
	)
	return nil
}

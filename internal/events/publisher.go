// Package events forwards booking lifecycle events to an SQS queue so
// downstream consumers (billing, notifications) can react without coupling to
// the API process.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"github.com/Jayesh2422/smartpark/internal/domain"
)

type SQSPublisher struct {
	sqsClient *sqs.Client
	queueURL  string
	logger    *zap.Logger
}

func NewSQSPublisher(client *sqs.Client, queueURL string, logger *zap.Logger) *SQSPublisher {
	return &SQSPublisher{
		sqsClient: client,
		queueURL:  queueURL,
		logger:    logger,
	}
}

func (p *SQSPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding booking event: %w", err)
	}

	out, err := p.sqsClient.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("sending booking event to queue: %w", err)
	}

	p.logger.Debug("published booking event",
		zap.String("event_type", event.EventType),
		zap.String("reference", event.Reference),
		zap.Stringp("message_id", out.MessageId))
	return nil
}

package resultevent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type SqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type SqsPublisher struct {
	client   SqsAPI
	queueUrl string
}

func NewSqsPublisher(client SqsAPI, queueUrl string) *SqsPublisher {
	return &SqsPublisher{client: client, queueUrl: queueUrl}
}

func (p *SqsPublisher) Publish(ctx context.Context, ev ResultCompleted) error {
	body, err := Encode(ev)
	if err != nil {
		return err
	}
	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueUrl),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to send result event: %w", err)
	}
	return nil
}

type HandleFunc func(ctx context.Context, ev ResultCompleted) error

// Receive polls the queue until ctx is cancelled, passing each event to
// handle. A message is deleted only after handle succeeds; failed ones
// reappear after the visibility timeout. Undecodable messages are dropped.
func Receive(ctx context.Context, client SqsAPI, queueUrl string, handle HandleFunc, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		output, err := client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueUrl),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     10,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			logger.Error("failed to receive messages", "error", err)
			continue
		}

		for _, msg := range output.Messages {
			if msg.Body == nil || msg.ReceiptHandle == nil {
				logger.Error("malformed sqs message", "message_id", aws.ToString(msg.MessageId))
				continue
			}

			ev, err := Decode(*msg.Body)
			if err != nil {
				logger.Error("dropping undecodable result event", "message_id", aws.ToString(msg.MessageId), "error", err)
				deleteMsg(ctx, client, queueUrl, *msg.ReceiptHandle, logger)
				continue
			}

			if err := handle(ctx, ev); err != nil {
				logger.Error("failed to handle result event", "result_id", ev.ResultID, "error", err)
				continue
			}
			deleteMsg(ctx, client, queueUrl, *msg.ReceiptHandle, logger)
		}
	}
}

func deleteMsg(ctx context.Context, client SqsAPI, queueUrl, handle string, logger *slog.Logger) {
	_, err := client.DeleteMessage(context.WithoutCancel(ctx), &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueUrl),
		ReceiptHandle: aws.String(handle),
	})
	if err != nil {
		logger.Error("failed to ack message", "error", err)
	}
}

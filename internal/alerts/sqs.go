package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"hydromon/internal/types"
)

// SQSSender abstracts the SQS SendMessage operation for testability.
// Production code uses the *sqs.Client from aws-sdk-go-v2.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Compile-time assertion that SQSChannel implements Channel.
var _ Channel = (*SQSChannel)(nil)

// SQSChannel publishes alert requests as JSON messages to an SQS queue for
// a downstream notification worker to deliver.
type SQSChannel struct {
	client   SQSSender
	queueURL string
}

// NewSQSChannel creates an SQSChannel targeting the given queue.
func NewSQSChannel(client SQSSender, queueURL string) *SQSChannel {
	return &SQSChannel{client: client, queueURL: queueURL}
}

// Type returns the channel type.
func (c *SQSChannel) Type() types.ChannelType { return types.ChannelSQS }

// Deliver serializes the alert and sends it to the queue.
func (c *SQSChannel) Deliver(ctx context.Context, req types.AlertRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("alerts: failed to marshal queue message: %w", err)
	}

	_, err = c.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return types.NewAppError(types.ErrCodeUpstreamAlert,
			fmt.Sprintf("failed to publish alert to %s", c.queueURL), err)
	}
	return nil
}

// Package sqsgath sends run events to an AWS SQS queue.
package sqsgath

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/programme-lv/smoke/api"
	"github.com/programme-lv/smoke/internal/gatherer"
	"github.com/programme-lv/smoke/internal/harness"
)

// SendMessageAPI is the subset of *sqs.Client used for sending.
type SendMessageAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type sqsResQueueGatherer struct {
	client    SendMessageAPI
	queueUrl  string
	runUuid   string
	threshold float64
}

// NewFromEnv loads the default AWS configuration (environment, shared config files)
// and returns a gatherer sending to queueUrl. Empty region or profile keep the defaults.
func NewFromEnv(ctx context.Context, queueUrl, region, profile, runUuid string, threshold float64) (*sqsResQueueGatherer, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return New(sqs.NewFromConfig(cfg), queueUrl, runUuid, threshold), nil
}

func New(client SendMessageAPI, queueUrl, runUuid string, threshold float64) *sqsResQueueGatherer {
	return &sqsResQueueGatherer{
		client:    client,
		queueUrl:  queueUrl,
		runUuid:   runUuid,
		threshold: threshold,
	}
}

func (s *sqsResQueueGatherer) StartRun(baseUrl string, checks []harness.Check) {
	s.send(api.StartRunMsg, api.NewStartRun(s.runUuid, baseUrl, len(checks)))
}

func (s *sqsResQueueGatherer) StartCheck(index int, check harness.Check) {
	s.send(api.StartCheckMsg, api.NewStartCheck(s.runUuid, index, check.Name, string(check.Kind)))
}

func (s *sqsResQueueGatherer) FinishCheck(res harness.CheckResult) {
	// SQS bodies are limited to 256 KiB, trimmed output stays far below
	data := gatherer.CheckData(res, api.MaxCheckDataHeight*2, api.MaxCheckDataWidth*2)
	s.send(api.FinishCheckMsg, api.NewFinishCheck(s.runUuid, res.Index, res.Check.Name, data))
}

func (s *sqsResQueueGatherer) FinishRun(sum harness.Summary) {
	status := gatherer.RunStatus(sum, s.threshold)
	s.send(api.FinishRunMsg, api.NewFinishRun(s.runUuid, status, sum.Run(), sum.Passed(), sum.Rate()))
}

func (s *sqsResQueueGatherer) send(msgType api.MsgType, msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal message", "err", err)
		return
	}

	_, err = s.client.SendMessage(context.TODO(), &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueUrl),
		MessageBody: aws.String(string(b)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"msg_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(msgType)),
			},
		},
	})
	if err != nil {
		slog.Error("failed to send message to SQS", "queue", s.queueUrl, "err", err)
	}
}

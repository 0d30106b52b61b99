// Package natsgath streams run events to a NATS subject.
package natsgath

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/programme-lv/smoke/api"
	"github.com/programme-lv/smoke/internal/gatherer"
	"github.com/programme-lv/smoke/internal/harness"
)

// Publisher is the subset of *nats.Conn used for sending.
type Publisher interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

var _ Publisher = (*nats.Conn)(nil)

type natsGatherer struct {
	pub       Publisher
	subject   string
	runUuid   string
	threshold float64
}

// New creates a gatherer publishing JSON messages of package api to subject.
func New(pub Publisher, subject string, runUuid string, threshold float64) *natsGatherer {
	return &natsGatherer{
		pub:       pub,
		subject:   subject,
		runUuid:   runUuid,
		threshold: threshold,
	}
}

func (s *natsGatherer) StartRun(baseUrl string, checks []harness.Check) {
	s.send(api.NewStartRun(s.runUuid, baseUrl, len(checks)))
}

func (s *natsGatherer) StartCheck(index int, check harness.Check) {
	s.send(api.NewStartCheck(s.runUuid, index, check.Name, string(check.Kind)))
}

func (s *natsGatherer) FinishCheck(res harness.CheckResult) {
	data := gatherer.CheckData(res, api.MaxCheckDataHeight, api.MaxCheckDataWidth)
	s.send(api.NewFinishCheck(s.runUuid, res.Index, res.Check.Name, data))
}

func (s *natsGatherer) FinishRun(sum harness.Summary) {
	status := gatherer.RunStatus(sum, s.threshold)
	s.send(api.NewFinishRun(s.runUuid, status, sum.Run(), sum.Passed(), sum.Rate()))
}

// Flush waits until the server has processed all published messages.
func (s *natsGatherer) Flush(ctx context.Context) error {
	return s.pub.FlushWithContext(ctx)
}

func (s *natsGatherer) send(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal message", "err", err)
		return
	}

	if err := s.pub.Publish(s.subject, b); err != nil {
		slog.Error("failed to publish message to NATS", "subject", s.subject, "err", err)
	}
}

package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/postloop/postloop-api/internal/publisher"
)

type PublishJob struct {
	p *publisher.Publisher
}

func NewPublishJob(p *publisher.Publisher) *PublishJob {
	return &PublishJob{
		p: p,
	}
}

// Publish runs one publishing pass for the current wall-clock hour.
func (c *PublishJob) Publish() {
	summary, err := c.p.Run(context.Background(), time.Now())
	if err != nil {
		slog.Error("publishing pass failed", "error", err)
		return
	}

	slog.Info("publishing pass finished", "processed", summary.Processed)
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campusconnect/internal/domain"
)

const defaultContextTimeout = 10 * time.Second

// Clock returns the current instant. Services read the time only through it.
type Clock func() time.Time

func (c Clock) orDefault() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}

func orDefaultLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

func orDefaultTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultContextTimeout
	}
	return d
}

// publish sends a domain event. A failed publish is logged and otherwise ignored.
func publish(ctx context.Context, p domain.EventPublisher, logger *slog.Logger, key string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, key, payload); err != nil {
		logger.WarnContext(ctx, "publish failed", "routing_key", key, "err", err)
	}
}

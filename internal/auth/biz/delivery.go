package biz

import (
	"context"
	"fmt"

	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/lk2023060901/workspace-backend/internal/pkg/workerpool"
	"go.uber.org/zap"
)

// Delivery is one verification code bound for a user.
type Delivery struct {
	PendingAuthID string
	Username      string
	Method        Method
	Code          string
}

// CodeSender delivers sms and email verification codes.
type CodeSender interface {
	Send(ctx context.Context, d Delivery) error
}

// LogSender stands in for an sms or mail gateway by logging the code.
type LogSender struct {
	logger *logger.Logger
}

// NewLogSender returns a sender that only logs.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{logger: log.Named("delivery")}
}

// Send logs the code instead of delivering it.
func (s *LogSender) Send(ctx context.Context, d Delivery) error {
	s.logger.WithContext(ctx).Info("verification code delivered",
		zap.String("pending_auth_id", d.PendingAuthID),
		zap.String("username", d.Username),
		zap.String("method", string(d.Method)),
		zap.String("code", d.Code),
	)
	return nil
}

// PooledSender runs next on a worker pool so SendCode returns before the
// gateway answers. Failures are only logged.
type PooledSender struct {
	pool   *workerpool.Pool
	next   CodeSender
	logger *logger.Logger
}

// NewPooledSender delivers through next on pool.
func NewPooledSender(pool *workerpool.Pool, next CodeSender, log *logger.Logger) *PooledSender {
	return &PooledSender{pool: pool, next: next, logger: log.Named("delivery")}
}

// Send queues the delivery and returns once it is accepted by the pool.
func (s *PooledSender) Send(ctx context.Context, d Delivery) error {
	ctx = context.WithoutCancel(ctx)
	err := s.pool.Submit(func() {
		if err := s.next.Send(ctx, d); err != nil {
			s.logger.WithContext(ctx).Warn("verification code delivery failed",
				zap.String("pending_auth_id", d.PendingAuthID),
				zap.String("method", string(d.Method)),
				zap.Error(err),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to queue code delivery: %w", err)
	}
	return nil
}

package biz

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lk2023060901/workspace-backend/internal/auth"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/lk2023060901/workspace-backend/internal/pkg/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureSender struct {
	mu   sync.Mutex
	sent []Delivery
	err  error
	done chan struct{}
}

func (s *captureSender) Send(_ context.Context, d Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, d)
	if s.done != nil {
		close(s.done)
	}
	return s.err
}

func newSenderUseCase(sender CodeSender) (*AuthUseCase, *MemoryPendingAuthRepo) {
	repo := NewMemoryPendingAuthRepo()
	uc := NewAuthUseCase(repo,
		auth.NewJWTManager("secret", "workspace-backend", time.Hour),
		auth.NewTOTPManager("", "seed"),
		Options{MaxAttempts: 3, Sender: sender},
		logger.NewNop(),
	)
	return uc, repo
}

func TestSendCode_UsesSender(t *testing.T) {
	sender := &captureSender{}
	uc, repo := newSenderUseCase(sender)
	ctx := context.Background()

	p, err := uc.Login(ctx, "alice", "pw", "")
	require.NoError(t, err)
	_, err = uc.SendCode(ctx, p.ID, MethodEmail)
	require.NoError(t, err)

	stored, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, Delivery{PendingAuthID: p.ID, Username: "alice", Method: MethodEmail, Code: stored.Code}, sender.sent[0])

	// the authenticator app needs no delivery
	_, err = uc.SendCode(ctx, p.ID, MethodApp)
	require.NoError(t, err)
	assert.Len(t, sender.sent, 1)
}

func TestSendCode_SenderFailure(t *testing.T) {
	boom := errors.New("gateway down")
	uc, _ := newSenderUseCase(&captureSender{err: boom})
	ctx := context.Background()

	p, err := uc.Login(ctx, "alice", "pw", "")
	require.NoError(t, err)
	_, err = uc.SendCode(ctx, p.ID, MethodSMS)
	assert.ErrorIs(t, err, boom)
}

func TestSendCode_FailedDeliveryAllowsRetry(t *testing.T) {
	sender := &captureSender{err: errors.New("gateway down")}
	repo := NewMemoryPendingAuthRepo()
	uc := NewAuthUseCase(repo,
		auth.NewJWTManager("secret", "workspace-backend", time.Hour),
		auth.NewTOTPManager("", "seed"),
		Options{MaxAttempts: 3, ResendCooldown: 30 * time.Second, Sender: sender},
		logger.NewNop(),
	)
	ctx := context.Background()

	p, err := uc.Login(ctx, "alice", "pw", "")
	require.NoError(t, err)
	_, err = uc.SendCode(ctx, p.ID, MethodSMS)
	require.Error(t, err)

	stored, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Code)
	assert.True(t, stored.CodeSentAt.IsZero())

	_, err = uc.Verify(ctx, p.ID, sender.sent[0].Code)
	assert.ErrorIs(t, err, ErrCodeNotSent)

	sender.mu.Lock()
	sender.err = nil
	sender.mu.Unlock()

	res, err := uc.SendCode(ctx, p.ID, MethodSMS)
	require.NoError(t, err)
	assert.Equal(t, 30, res.ResendIn)
	require.Len(t, sender.sent, 2)
}

func TestPooledSender(t *testing.T) {
	pool, err := workerpool.New(&workerpool.Config{Workers: 1}, zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = pool.Shutdown(context.Background()) }()

	next := &captureSender{err: errors.New("ignored"), done: make(chan struct{})}
	s := NewPooledSender(pool, next, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Send(ctx, Delivery{PendingAuthID: "p1", Method: MethodSMS, Code: "123456"}))
	cancel()

	select {
	case <-next.done:
	case <-time.After(5 * time.Second):
		t.Fatal("delivery never ran")
	}
	next.mu.Lock()
	defer next.mu.Unlock()
	assert.Equal(t, "p1", next.sent[0].PendingAuthID)
}

func TestPooledSender_ClosedPool(t *testing.T) {
	pool, err := workerpool.New(&workerpool.Config{Workers: 1}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, pool.Shutdown(context.Background()))

	s := NewPooledSender(pool, &captureSender{}, logger.NewNop())
	err = s.Send(context.Background(), Delivery{PendingAuthID: "p1"})
	assert.ErrorIs(t, err, workerpool.ErrPoolClosed)
}

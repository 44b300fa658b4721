package biz

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/workspace-backend/internal/pkg/redis"
)

const PendingAuthKeyPrefix = "pending_auth:"

// Method is a second-factor delivery channel.
type Method string

const (
	MethodSMS   Method = "sms"
	MethodEmail Method = "email"
	MethodApp   Method = "app"
)

// Valid reports whether m is sms, email or app.
func (m Method) Valid() bool {
	return m == MethodSMS || m == MethodEmail || m == MethodApp
}

// PendingAuth is a login that passed the password step and awaits its
// second factor.
type PendingAuth struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	IP         string    `json:"ip"`
	Method     Method    `json:"method,omitempty"`
	Code       string    `json:"code,omitempty"`
	Attempts   int       `json:"attempts"`
	CodeSentAt time.Time `json:"code_sent_at,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// NewPendingAuth opens a pending auth expiring ttl after now.
func NewPendingAuth(username, ip string, now time.Time, ttl time.Duration) *PendingAuth {
	return &PendingAuth{
		ID:        uuid.NewString(),
		Username:  username,
		IP:        ip,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// PendingAuthRepo stores pending auths until they expire.
type PendingAuthRepo interface {
	// Save stores p until p.ExpiresAt, replacing any previous version.
	Save(ctx context.Context, p *PendingAuth) error
	// Get returns ErrPendingAuthNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*PendingAuth, error)
	Delete(ctx context.Context, id string) error
}

// RedisPendingAuthRepo keeps pending auths in redis with a TTL.
type RedisPendingAuthRepo struct {
	client *redis.Client
}

// NewRedisPendingAuthRepo returns a repo over client.
func NewRedisPendingAuthRepo(client *redis.Client) *RedisPendingAuthRepo {
	return &RedisPendingAuthRepo{client: client}
}

// Save writes p with the time left until it expires.
func (r *RedisPendingAuthRepo) Save(ctx context.Context, p *PendingAuth) error {
	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 {
		return ErrPendingAuthNotFound
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal pending auth: %w", err)
	}
	return r.client.Set(ctx, PendingAuthKeyPrefix+p.ID, string(data), ttl)
}

// Get returns ErrPendingAuthNotFound for missing or expired ids.
func (r *RedisPendingAuthRepo) Get(ctx context.Context, id string) (*PendingAuth, error) {
	data, err := r.client.Get(ctx, PendingAuthKeyPrefix+id)
	if err != nil {
		if redis.IsNil(err) {
			return nil, ErrPendingAuthNotFound
		}
		return nil, fmt.Errorf("failed to get pending auth: %w", err)
	}

	var p PendingAuth
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending auth: %w", err)
	}
	if time.Now().After(p.ExpiresAt) {
		_ = r.Delete(ctx, id)
		return nil, ErrPendingAuthNotFound
	}
	return &p, nil
}

// Delete removes the pending auth.
func (r *RedisPendingAuthRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.Del(ctx, PendingAuthKeyPrefix+id)
	return err
}

// MemoryPendingAuthRepo is used when redis is disabled. Expired entries are
// dropped lazily on access.
type MemoryPendingAuthRepo struct {
	mu      sync.Mutex
	entries map[string]PendingAuth
	now     func() time.Time
}

// NewMemoryPendingAuthRepo returns an empty in-process repo.
func NewMemoryPendingAuthRepo() *MemoryPendingAuthRepo {
	return &MemoryPendingAuthRepo{entries: make(map[string]PendingAuth), now: time.Now}
}

// Save stores a copy of p.
func (r *MemoryPendingAuthRepo) Save(_ context.Context, p *PendingAuth) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.now().Before(p.ExpiresAt) {
		return ErrPendingAuthNotFound
	}
	r.entries[p.ID] = *p
	return nil
}

// Get returns ErrPendingAuthNotFound for missing or expired ids.
func (r *MemoryPendingAuthRepo) Get(_ context.Context, id string) (*PendingAuth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.entries[id]
	if !ok {
		return nil, ErrPendingAuthNotFound
	}
	if r.now().After(p.ExpiresAt) {
		delete(r.entries, id)
		return nil, ErrPendingAuthNotFound
	}
	return &p, nil
}

// Delete removes the pending auth.
func (r *MemoryPendingAuthRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

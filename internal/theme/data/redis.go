package data

import (
	"context"

	"github.com/lk2023060901/workspace-backend/internal/pkg/redis"
	"github.com/lk2023060901/workspace-backend/internal/theme/biz"
)

const themeKeyPrefix = "theme:"

// RedisPreferenceRepo keeps one key per owner with no expiry.
type RedisPreferenceRepo struct {
	client *redis.Client
}

// NewRedisPreferenceRepo returns a repo over client.
func NewRedisPreferenceRepo(client *redis.Client) *RedisPreferenceRepo {
	return &RedisPreferenceRepo{client: client}
}

func themeKey(owner string) string {
	return themeKeyPrefix + owner
}

// Get returns biz.ErrPreferenceNotFound for unknown owners.
func (r *RedisPreferenceRepo) Get(ctx context.Context, owner string) (string, error) {
	name, err := r.client.Get(ctx, themeKey(owner))
	if err != nil {
		if redis.IsNil(err) {
			return "", biz.ErrPreferenceNotFound
		}
		return "", err
	}
	return name, nil
}

// Set stores name for owner without expiry.
func (r *RedisPreferenceRepo) Set(ctx context.Context, owner, name string) error {
	return r.client.Set(ctx, themeKey(owner), name, 0)
}

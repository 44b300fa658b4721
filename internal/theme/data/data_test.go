package data

import (
	"context"
	"testing"

	"github.com/lk2023060901/workspace-backend/internal/theme/biz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestMemoryPreferenceRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPreferenceRepo()

	_, err := repo.Get(ctx, "alice")
	assert.ErrorIs(t, err, biz.ErrPreferenceNotFound)

	require.NoError(t, repo.Set(ctx, "alice", "rose"))
	require.NoError(t, repo.Set(ctx, "bob", "teal"))
	require.NoError(t, repo.Set(ctx, "alice", "slate"))

	name, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "slate", name)

	name, err = repo.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "teal", name)
}

func TestThemeKey(t *testing.T) {
	assert.Equal(t, "theme:alice", themeKey("alice"))
}

func TestUpsertSQL(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=postgres dbname=workspace sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return upsert(tx, "alice", "rose")
	})

	assert.Contains(t, sql, `INSERT INTO "theme_preferences"`)
	assert.Contains(t, sql, `ON CONFLICT ("owner") DO UPDATE SET`)
	assert.Contains(t, sql, `"theme"="excluded"."theme"`)
	assert.Contains(t, sql, "'rose'")
}

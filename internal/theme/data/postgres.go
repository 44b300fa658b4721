package data

import (
	"context"
	"fmt"
	"time"

	"github.com/lk2023060901/workspace-backend/internal/pkg/database"
	"github.com/lk2023060901/workspace-backend/internal/theme/biz"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ThemePreferencePO is the theme_preferences row.
type ThemePreferencePO struct {
	Owner     string    `gorm:"column:owner;primaryKey;type:varchar(255)"`
	Theme     string    `gorm:"column:theme;type:varchar(32);not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName implements gorm's tabler.
func (ThemePreferencePO) TableName() string {
	return "theme_preferences"
}

// PostgresPreferenceRepo keeps preferences in the theme_preferences table.
type PostgresPreferenceRepo struct {
	db *gorm.DB
}

// NewPostgresPreferenceRepo migrates theme_preferences when auto migration
// is enabled.
func NewPostgresPreferenceRepo(db *database.DB) (*PostgresPreferenceRepo, error) {
	if err := db.AutoMigrate(&ThemePreferencePO{}); err != nil {
		return nil, fmt.Errorf("failed to migrate theme preferences: %w", err)
	}
	return &PostgresPreferenceRepo{db: db.DB}, nil
}

// Get returns biz.ErrPreferenceNotFound for unknown owners.
func (r *PostgresPreferenceRepo) Get(ctx context.Context, owner string) (string, error) {
	var po ThemePreferencePO
	err := r.db.WithContext(ctx).Where("owner = ?", owner).First(&po).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return "", biz.ErrPreferenceNotFound
		}
		return "", err
	}
	return po.Theme, nil
}

// Set upserts the owner's row.
func (r *PostgresPreferenceRepo) Set(ctx context.Context, owner, name string) error {
	return upsert(r.db.WithContext(ctx), owner, name).Error
}

func upsert(tx *gorm.DB, owner, name string) *gorm.DB {
	po := &ThemePreferencePO{Owner: owner, Theme: name, UpdatedAt: time.Now().UTC()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}},
		DoUpdates: clause.AssignmentColumns([]string{"theme", "updated_at"}),
	}).Create(po)
}

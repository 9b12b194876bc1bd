package database

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errNotInitialized = errors.New("database not initialized")

// GetUpdateState loads the single polling cursor row, creating it on first
// run.
func GetUpdateState(ctx context.Context) (*UpdateState, error) {
	if db == nil {
		return nil, errNotInitialized
	}
	var state UpdateState
	if err := db.WithContext(ctx).FirstOrCreate(&state, UpdateState{ID: 1}).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveUpdateOffset persists the last processed update ID and refreshes the
// in-memory copy.
func SaveUpdateOffset(ctx context.Context, updateID int) error {
	if db == nil {
		return errNotInitialized
	}
	if err := db.WithContext(ctx).Model(&UpdateState{}).
		Where("id = ?", 1).
		Updates(map[string]any{"last_update_id": updateID, "updated_at": time.Now()}).Error; err != nil {
		return err
	}
	lastOffsetMu.Lock()
	lastOffset = updateID
	lastOffsetMu.Unlock()
	return nil
}

// IncrCommandStat bumps the usage counter for one command.
func IncrCommandStat(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("empty command name")
	}
	if db == nil {
		return errNotInitialized
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"invocations":  gorm.Expr("invocations + 1"),
			"last_invoked": time.Now(),
		}),
	}).Create(&CommandStat{Name: name, Invocations: 1, LastInvoked: time.Now()}).Error
}

func ListCommandStats(ctx context.Context) ([]*CommandStat, error) {
	if db == nil {
		return nil, errNotInitialized
	}
	var stats []*CommandStat
	if err := db.WithContext(ctx).Order("invocations desc").Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

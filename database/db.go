package database

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func InitDatabase(ctx context.Context) error {
	if db != nil {
		return nil
	}
	log.FromContext(ctx).Debug("Initializing database")
	openDb, err := gorm.Open(gormlite.Open("data/data.db"), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}
	db = openDb
	if err := db.AutoMigrate(&UpdateState{}, &CommandStat{}); err != nil {
		return err
	}
	state, err := GetUpdateState(ctx)
	if err != nil {
		return err
	}
	lastOffsetMu.Lock()
	lastOffset = state.LastUpdateID
	lastOffsetMu.Unlock()
	return nil
}

package database

import "time"

// UpdateState persists the polling cursor so a restart resumes after the
// last update the bot already processed.
type UpdateState struct {
	ID           uint `gorm:"primaryKey"`
	LastUpdateID int
	UpdatedAt    time.Time
}

// CommandStat counts successful dispatches per command name.
type CommandStat struct {
	Name        string    `gorm:"primaryKey" json:"name"`
	Invocations int64     `json:"invocations"`
	LastInvoked time.Time `json:"last_invoked"`
}

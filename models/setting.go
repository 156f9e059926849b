package models

import "time"

// Setting -> flag internal engine (mis. penanda migrasi selesai)
type Setting struct {
	Key       string    `gorm:"primaryKey;type:varchar(50)" json:"key"`
	Value     string    `gorm:"type:varchar(255)" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

const SettingMigrationDone = "migration_done"

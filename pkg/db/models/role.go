package models

// Role is static reference data seeded by the initial migration.
type Role struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"type:text;not null;uniqueIndex"`
}

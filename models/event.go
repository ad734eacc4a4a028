package models

import (
	"time"
)

// Event is one competition/track of the fest. Events are seeded out-of-band
// (or via database.SeedEvents in development) and are read-only to the
// registration pipeline.
type Event struct {
	ID           uint32    `gorm:"primarykey" json:"id"`
	Slug         string    `gorm:"size:50;unique;not null" json:"slug"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	RequiresTeam bool      `gorm:"not null;default:false" json:"requires_team"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Event) TableName() string {
	return "csi_event"
}

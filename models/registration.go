package models

import (
	"time"

	"gorm.io/datatypes"
)

// Registration is one submission tied to exactly one Event. The unique index
// on RegistrationNumber is the correctness mechanism for number uniqueness;
// the generator's retry loop only reduces how often an insert trips it.
type Registration struct {
	ID                 uint32         `gorm:"primarykey" json:"id"`
	RegistrationNumber string         `gorm:"size:20;unique;not null" json:"registration_number"`
	EventID            uint32         `gorm:"not null" json:"event_id"`
	Event              Event          `gorm:"foreignKey:EventID" json:"event"`
	TeamName           *string        `gorm:"size:100" json:"team_name"`
	Metadata           datatypes.JSON `json:"metadata"`
	CreatedAt          time.Time      `json:"created_at"`
	Participants       []Participant  `gorm:"foreignKey:RegistrationID" json:"participants"`
}

func (Registration) TableName() string {
	return "csi_registration"
}

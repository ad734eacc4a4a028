package database

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"csifest/models"
)

// The fest's event catalog. Slugs are immutable once published on tickets.
//
// Schema note: registration numbers are generated app-side and guarded by the
// unique index on csi_registration.registration_number. If a deployment
// prefers store-side generation instead, drop the app-side generator call and
// give the column a DB default, e.g.
//
//	registration_number VARCHAR(20) NOT NULL UNIQUE
//	  DEFAULT (CONCAT('CSI-', UPPER(CONV(UNIX_TIMESTAMP(), 10, 36)),
//	           '-', UPPER(HEX(RANDOM_BYTES(4)))))
var seedEvents = []models.Event{
	{Slug: "pick-speak", Name: "Pick & Speak", RequiresTeam: false},
	{Slug: "ideathon", Name: "Ideathon", RequiresTeam: true},
	{Slug: "tech-quiz", Name: "Technical Quiz", RequiresTeam: true},
	{Slug: "poster", Name: "Poster Presentation", RequiresTeam: true},
	{Slug: "programming-contest", Name: "Programming Contest", RequiresTeam: true},
}

// SeedEvents inserts the event catalog, skipping slugs that already exist.
// Safe to run on every startup.
func SeedEvents(db *gorm.DB) error {
	for _, ev := range seedEvents {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&ev).Error
		if err != nil {
			return fmt.Errorf("failed to seed event %s: %w", ev.Slug, err)
		}
	}
	return nil
}

package models

import (
	"gorm.io/gorm"
)

const (
	SIGHTING_RESULT_MATCHED   = "matched"
	SIGHTING_RESULT_UNMATCHED = "unmatched"
)

// Sighting records one lookup of an unknown face.
type Sighting struct {
	gorm.Model
	Filename    string
	MatchedName string
	Result      string
}

func (sighting *Sighting) BeforeCreate(tx *gorm.DB) error {
	if sighting.Result == "" {
		if sighting.MatchedName != "" {
			sighting.Result = SIGHTING_RESULT_MATCHED
		} else {
			sighting.Result = SIGHTING_RESULT_UNMATCHED
		}
	}

	return nil
}

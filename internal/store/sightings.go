package store

import (
	"context"
	"fmt"

	"github.com/amirhossein5/facestore/internal/models"
)

const DefaultSightingsLimit = 50

// RecordSighting logs a lookup of filename. matchedName is empty when nothing
// matched.
func (s *FaceStore) RecordSighting(ctx context.Context, filename, matchedName string) error {
	sighting := models.Sighting{Filename: filename, MatchedName: matchedName}
	if err := s.db.WithContext(ctx).Create(&sighting).Error; err != nil {
		return fmt.Errorf("failed to record sighting of %s: %w", filename, err)
	}
	return nil
}

// Sightings returns the most recent sightings first.
func (s *FaceStore) Sightings(ctx context.Context, limit int) ([]models.Sighting, error) {
	if limit <= 0 {
		limit = DefaultSightingsLimit
	}

	var sightings []models.Sighting
	if err := s.db.WithContext(ctx).Order("id desc").Limit(limit).Find(&sightings).Error; err != nil {
		return nil, fmt.Errorf("failed to load sightings: %w", err)
	}
	return sightings, nil
}

// Package store persists named face encodings and answers "have we seen this
// face before" with a linear scan over every stored encoding.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein5/facestore/internal/facematch"
	"github.com/amirhossein5/facestore/internal/models"
	"gorm.io/gorm"
)

var (
	ErrDuplicateName = errors.New("face name already exists")
	ErrEmptyName     = errors.New("face name is empty")
)

type FaceStore struct {
	db      *gorm.DB
	matcher facematch.Matcher
}

func New(db *gorm.DB, matcher facematch.Matcher) *FaceStore {
	return &FaceStore{db: db, matcher: matcher}
}

// Add stores encoding under name. The name check and the insert are not
// atomic; a concurrent insert of the same name is rejected by the UNIQUE
// constraint and reported as ErrDuplicateName as well.
func (s *FaceStore) Add(ctx context.Context, name string, encoding models.Encoding) error {
	if name == "" {
		return ErrEmptyName
	}

	exists, err := s.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	return s.insert(ctx, &models.Face{Name: name, Encoding: encoding})
}

func (s *FaceStore) insert(ctx context.Context, face *models.Face) error {
	err := s.db.WithContext(ctx).Create(face).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrDuplicateName, face.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to insert face %s: %w", face.Name, err)
	}
	return nil
}

func (s *FaceStore) Exists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Face{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up face %s: %w", name, err)
	}
	return count > 0, nil
}

// ContainsSimilar reports whether any stored encoding matches encoding.
func (s *FaceStore) ContainsSimilar(ctx context.Context, encoding models.Encoding) (bool, error) {
	_, found, err := s.FindMatch(ctx, encoding)
	return found, err
}

// FindMatch returns the name of the first stored face, in insertion order,
// that matches encoding.
func (s *FaceStore) FindMatch(ctx context.Context, encoding models.Encoding) (string, bool, error) {
	rows, err := s.db.WithContext(ctx).Model(&models.Face{}).Order("id").Rows()
	if err != nil {
		return "", false, fmt.Errorf("failed to scan faces: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var face models.Face
		if err := s.db.ScanRows(rows, &face); err != nil {
			return "", false, fmt.Errorf("failed to read face row: %w", err)
		}
		if s.matcher.Match(face.Encoding, encoding) {
			return face.Name, true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return "", false, fmt.Errorf("failed to scan faces: %w", err)
	}

	return "", false, nil
}

// All returns every stored face in insertion order.
func (s *FaceStore) All(ctx context.Context) ([]models.Face, error) {
	var faces []models.Face
	if err := s.db.WithContext(ctx).Order("id").Find(&faces).Error; err != nil {
		return nil, fmt.Errorf("failed to load faces: %w", err)
	}
	return faces, nil
}

func (s *FaceStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Face{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count faces: %w", err)
	}
	return count, nil
}

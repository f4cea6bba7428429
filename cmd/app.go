package cmd

import (
	"log/slog"

	"github.com/amirhossein5/facestore/internal/config"
	"github.com/amirhossein5/facestore/internal/dbconnection"
	"github.com/amirhossein5/facestore/internal/facematch"
	"github.com/amirhossein5/facestore/internal/recognizer"
	"github.com/amirhossein5/facestore/internal/store"
	"gorm.io/gorm"
)

func openStore(cfg *config.Config, log *slog.Logger) (*store.FaceStore, *gorm.DB, error) {
	db, err := dbconnection.Open(cfg.Database.Path, log)
	if err != nil {
		return nil, nil, err
	}
	return store.New(db, newMatcher(cfg)), db, nil
}

func newMatcher(cfg *config.Config) facematch.Matcher {
	return facematch.NewEuclideanMatcher(cfg.Recognition.Tolerance)
}

func newRecognizer(cfg *config.Config, log *slog.Logger) (*recognizer.Recognizer, error) {
	return recognizer.New(recognizer.Options{
		ModelsDir:    cfg.Recognition.ModelsDir,
		UseCNN:       cfg.Recognition.UseCNN,
		MaxImageSize: cfg.Recognition.MaxImageSize,
	}, log)
}

// Package batch enrols a directory of known faces and reports, for every
// image of a second directory, which stored faces it matches.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/amirhossein5/facestore/internal/facematch"
	"github.com/amirhossein5/facestore/internal/models"
	"github.com/schollz/progressbar/v3"
)

// FaceStore is the subset of store.FaceStore the batch run needs.
type FaceStore interface {
	Add(ctx context.Context, name string, encoding models.Encoding) error
	Exists(ctx context.Context, name string) (bool, error)
	All(ctx context.Context) ([]models.Face, error)
}

type Runner struct {
	store    FaceStore
	encoder  facematch.Encoder
	matcher  facematch.Matcher
	out      io.Writer
	log      *slog.Logger
	progress io.Writer
}

type Option func(*Runner)

// WithProgress draws a progress bar on w while images are encoded.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) {
		r.progress = w
	}
}

func NewRunner(store FaceStore, encoder facematch.Encoder, matcher facematch.Matcher, out io.Writer, log *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		store:   store,
		encoder: encoder,
		matcher: matcher,
		out:     out,
		log:     log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run enrols knownDir, then compares unknownDir against every stored face.
func (r *Runner) Run(ctx context.Context, knownDir, unknownDir string) error {
	if err := r.StoreFaces(ctx, knownDir); err != nil {
		return err
	}
	return r.CompareFaces(ctx, unknownDir)
}

// StoreFaces adds every image of dir under its file name. Images without
// exactly one face are skipped, as are names that are already stored.
func (r *Runner) StoreFaces(ctx context.Context, dir string) error {
	files, err := listFiles(dir)
	if err != nil {
		return err
	}

	bar := r.newBar(len(files), "Encoding known faces")
	defer finish(bar)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		encoding, ok, err := r.encode(filepath.Join(dir, file), r.encoder.Encode)
		addBar(bar)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		exists, err := r.store.Exists(ctx, file)
		if err != nil {
			return err
		}
		if exists {
			fmt.Fprintf(r.out, "Face %s already exists, skipping.\n", file)
			continue
		}

		if err := r.store.Add(ctx, file, encoding); err != nil {
			return fmt.Errorf("failed to store face %s: %w", file, err)
		}
		fmt.Fprintf(r.out, "Face %s was added.\n", file)
	}

	return nil
}

// CompareFaces prints one line per (image, stored face) pair of dir. Images
// with several faces are compared by the first face detected.
func (r *Runner) CompareFaces(ctx context.Context, dir string) error {
	known, err := r.store.All(ctx)
	if err != nil {
		return err
	}

	files, err := listFiles(dir)
	if err != nil {
		return err
	}

	bar := r.newBar(len(files), "Comparing unknown faces")
	defer finish(bar)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		encoding, ok, err := r.encode(filepath.Join(dir, file), r.encoder.EncodeFirst)
		addBar(bar)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		for _, face := range known {
			if r.matcher.Match(face.Encoding, encoding) {
				fmt.Fprintf(r.out, "%s matches %s\n", file, face.Name)
			} else {
				fmt.Fprintf(r.out, "%s does not match %s\n", file, face.Name)
			}
		}
	}

	return nil
}

// encode reads path and encodes it with fn. It returns ok=false for images
// fn rejects because of their face count.
func (r *Runner) encode(path string, fn func([]byte) (models.Encoding, error)) (models.Encoding, bool, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read image %s: %w", path, err)
	}

	encoding, err := fn(buf)
	switch {
	case errors.Is(err, facematch.ErrNoFace), errors.Is(err, facematch.ErrMultipleFaces):
		r.log.Debug("skipping image", "path", path, "reason", err)
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return encoding, true, nil
}

// listFiles returns the regular files of dir in lexical order.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

func (r *Runner) newBar(count int, description string) *progressbar.ProgressBar {
	if r.progress == nil || count == 0 {
		return nil
	}
	return progressbar.NewOptions(count,
		progressbar.OptionSetWriter(r.progress),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
	)
}

func addBar(bar *progressbar.ProgressBar) {
	if bar != nil {
		bar.Add(1)
	}
}

func finish(bar *progressbar.ProgressBar) {
	if bar != nil {
		bar.Finish()
	}
}

package batch

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/amirhossein5/facestore/internal/dbconnection"
	"github.com/amirhossein5/facestore/internal/facematch"
	"github.com/amirhossein5/facestore/internal/facematch/facematchtest"
	"github.com/amirhossein5/facestore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *store.FaceStore
	knownDir   string
	unknownDir string
	out        *bytes.Buffer
	runner     *Runner
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	root := t.TempDir()

	db, err := dbconnection.Open(filepath.Join(root, "faces.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { dbconnection.Close(db) })

	matcher := facematch.NewEuclideanMatcher(facematch.DefaultTolerance)
	f := &fixture{
		store:      store.New(db, matcher),
		knownDir:   filepath.Join(root, "knownfaces"),
		unknownDir: filepath.Join(root, "unknownfaces"),
		out:        &bytes.Buffer{},
	}
	require.NoError(t, os.MkdirAll(f.knownDir, 0o755))
	require.NoError(t, os.MkdirAll(f.unknownDir, 0o755))

	f.runner = NewRunner(f.store, &facematchtest.Encoder{}, matcher, f.out, log, opts...)
	return f
}

func writeImage(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStoreFaces_AddsAndSkips(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	writeImage(t, f.knownDir, "alice.jpg", "alice")
	writeImage(t, f.knownDir, "bob.jpg", "bob")
	writeImage(t, f.knownDir, "landscape.jpg", "noface: just trees")
	writeImage(t, f.knownDir, "group.jpg", "twofaces: alice and bob")
	require.NoError(t, os.Mkdir(filepath.Join(f.knownDir, "subdir"), 0o755))

	require.NoError(t, f.runner.StoreFaces(ctx, f.knownDir))
	assert.Equal(t, "Face alice.jpg was added.\nFace bob.jpg was added.\n", f.out.String())

	faces, err := f.store.All(ctx)
	require.NoError(t, err)
	require.Len(t, faces, 2)

	f.out.Reset()
	require.NoError(t, f.runner.StoreFaces(ctx, f.knownDir))
	assert.Equal(t, "Face alice.jpg already exists, skipping.\nFace bob.jpg already exists, skipping.\n", f.out.String())

	faces, err = f.store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, faces, 2)
}

func TestRun_KnownImageMatchesItself(t *testing.T) {
	f := newFixture(t)

	writeImage(t, f.knownDir, "alice.jpg", "alice")
	writeImage(t, f.knownDir, "bob.jpg", "bob")
	writeImage(t, f.unknownDir, "who.jpg", "alice")
	writeImage(t, f.unknownDir, "nobody.jpg", "noface")

	require.NoError(t, f.runner.Run(context.Background(), f.knownDir, f.unknownDir))

	want := "Face alice.jpg was added.\n" +
		"Face bob.jpg was added.\n" +
		"who.jpg matches alice.jpg\n" +
		"who.jpg does not match bob.jpg\n"
	assert.Equal(t, want, f.out.String())
}

func TestCompareFaces_GroupPhotoUsesFirstFace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group := "twofaces: alice and bob"
	require.NoError(t, f.store.Add(ctx, "alice.jpg", facematchtest.EncodingOf([]byte(group))))
	writeImage(t, f.unknownDir, "group.jpg", group)

	require.NoError(t, f.runner.CompareFaces(ctx, f.unknownDir))
	assert.Equal(t, "group.jpg matches alice.jpg\n", f.out.String())
}

func TestCompareFaces_EmptyStorePrintsNothing(t *testing.T) {
	f := newFixture(t)

	writeImage(t, f.unknownDir, "who.jpg", "alice")

	require.NoError(t, f.runner.CompareFaces(context.Background(), f.unknownDir))
	assert.Empty(t, f.out.String())
}

func TestStoreFaces_MissingDirectory(t *testing.T) {
	f := newFixture(t)

	err := f.runner.StoreFaces(context.Background(), filepath.Join(f.knownDir, "missing"))
	assert.Error(t, err)
}

func TestRun_CancelledContext(t *testing.T) {
	f := newFixture(t)
	writeImage(t, f.knownDir, "alice.jpg", "alice")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, f.runner.Run(ctx, f.knownDir, f.unknownDir), context.Canceled)
}

func TestRun_WithProgressKeepsReportOnOut(t *testing.T) {
	var progress bytes.Buffer
	f := newFixture(t, WithProgress(&progress))

	writeImage(t, f.knownDir, "alice.jpg", "alice")
	writeImage(t, f.unknownDir, "alice-again.jpg", "alice")

	require.NoError(t, f.runner.Run(context.Background(), f.knownDir, f.unknownDir))

	assert.Equal(t, "Face alice.jpg was added.\nalice-again.jpg matches alice.jpg\n", f.out.String())
	assert.NotEmpty(t, progress.String())
}

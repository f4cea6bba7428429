package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/amirhossein5/facestore/internal/dbconnection"
	"github.com/amirhossein5/facestore/internal/facematch"
	"github.com/amirhossein5/facestore/internal/facematch/facematchtest"
	"github.com/amirhossein5/facestore/internal/store"
	"github.com/amirhossein5/facestore/internal/uploads"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store      *store.FaceStore
	encoder    *facematchtest.Encoder
	knownDir   string
	unknownDir string
	liveDir    string
	log        *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	root := t.TempDir()

	db, err := dbconnection.Open(filepath.Join(root, "faces.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { dbconnection.Close(db) })

	env := &testEnv{
		store:      store.New(db, facematch.NewEuclideanMatcher(facematch.DefaultTolerance)),
		encoder:    &facematchtest.Encoder{},
		knownDir:   filepath.Join(root, "uploads", "knownfaces"),
		unknownDir: filepath.Join(root, "uploads", "unknownfaces"),
		liveDir:    filepath.Join(root, "uploads", "live"),
		log:        log,
	}
	require.NoError(t, uploads.EnsureDirs(env.knownDir, env.unknownDir, env.liveDir))
	return env
}

func (env *testEnv) liveHandler() *LiveHandler {
	return NewLiveHandler(env.store, env.encoder, env.liveDir, env.log)
}

func (env *testEnv) facesHandler(maxUploadSize int64) *FacesHandler {
	return NewFacesHandler(env.store, env.encoder, env.knownDir, env.unknownDir, maxUploadSize, env.log)
}

// newUploadRequest builds a multipart POST with content under the "file"
// field. An empty filename mimics a browser form submitted without a file.
func newUploadRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

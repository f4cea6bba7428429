package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amirhossein5/facestore/internal/facematch/facematchtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	recorder := httptest.NewRecorder()
	HealthCheck(recorder, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestListFaces(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	h := NewAPIHandler(env.store, env.log)

	recorder := httptest.NewRecorder()
	h.ListFaces(recorder, httptest.NewRequest(http.MethodGet, "/api/faces", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[]`, recorder.Body.String())

	require.NoError(t, env.store.Add(ctx, "alice.jpg", facematchtest.EncodingOf([]byte("alice"))))
	require.NoError(t, env.store.Add(ctx, "bob.jpg", facematchtest.EncodingOf([]byte("bob"))))

	recorder = httptest.NewRecorder()
	h.ListFaces(recorder, httptest.NewRequest(http.MethodGet, "/api/faces", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	var faces []faceResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &faces))
	require.Len(t, faces, 2)
	assert.Equal(t, "alice.jpg", faces[0].Name)
	assert.Equal(t, "bob.jpg", faces[1].Name)
	assert.NotContains(t, recorder.Body.String(), "encoding")
}

func TestListSightings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	h := NewAPIHandler(env.store, env.log)

	require.NoError(t, env.store.RecordSighting(ctx, "a.jpg", ""))
	require.NoError(t, env.store.RecordSighting(ctx, "b.jpg", "alice.jpg"))

	recorder := httptest.NewRecorder()
	h.ListSightings(recorder, httptest.NewRequest(http.MethodGet, "/api/sightings?limit=1", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	var sightings []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &sightings))
	require.Len(t, sightings, 1)
	assert.Equal(t, "b.jpg", sightings[0]["filename"])
	assert.Equal(t, "alice.jpg", sightings[0]["matched_name"])
	assert.Equal(t, "matched", sightings[0]["result"])
	assert.Contains(t, sightings[0], "id")
	assert.Contains(t, sightings[0], "created_at")
	for _, key := range []string{"ID", "CreatedAt", "UpdatedAt", "DeletedAt"} {
		assert.NotContains(t, sightings[0], key)
	}
}

func TestListSightings_InvalidLimit(t *testing.T) {
	env := newTestEnv(t)
	h := NewAPIHandler(env.store, env.log)

	for _, limit := range []string{"abc", "0", "-3"} {
		recorder := httptest.NewRecorder()
		h.ListSightings(recorder, httptest.NewRequest(http.MethodGet, "/api/sightings?limit="+limit, nil))
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "limit=%s", limit)
	}
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// APIHandler exposes read-only JSON views of the store.
type APIHandler struct {
	store FaceStore
	log   *slog.Logger
}

func NewAPIHandler(faces FaceStore, log *slog.Logger) *APIHandler {
	return &APIHandler{store: faces, log: log}
}

type faceResponse struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type sightingResponse struct {
	ID          uint      `json:"id"`
	Filename    string    `json:"filename"`
	MatchedName string    `json:"matched_name,omitempty"`
	Result      string    `json:"result"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *APIHandler) ListFaces(w http.ResponseWriter, r *http.Request) {
	faces, err := h.store.All(r.Context())
	if err != nil {
		h.log.Error("failed to list faces", "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}

	result := make([]faceResponse, 0, len(faces))
	for _, face := range faces {
		result = append(result, faceResponse{ID: face.ID, Name: face.Name})
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *APIHandler) ListSightings(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	sightings, err := h.store.Sightings(r.Context(), limit)
	if err != nil {
		h.log.Error("failed to list sightings", "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	result := make([]sightingResponse, 0, len(sightings))
	for _, s := range sightings {
		result = append(result, sightingResponse{
			ID:          s.ID,
			Filename:    s.Filename,
			MatchedName: s.MatchedName,
			Result:      s.Result,
			CreatedAt:   s.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, result)
}

package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amirhossein5/facestore/internal/models"
	"github.com/amirhossein5/facestore/internal/web/templates"
)

// FaceStore is the subset of store.FaceStore the handlers use.
type FaceStore interface {
	Add(ctx context.Context, name string, encoding models.Encoding) error
	ContainsSimilar(ctx context.Context, encoding models.Encoding) (bool, error)
	FindMatch(ctx context.Context, encoding models.Encoding) (string, bool, error)
	All(ctx context.Context) ([]models.Face, error)
	RecordSighting(ctx context.Context, filename, matchedName string) error
	Sightings(ctx context.Context, limit int) ([]models.Sighting, error)
}

const errInternal = "internal error"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, message)
}

// renderPage renders an HTML template, falling back to a plain 500 if the
// template fails before anything was written.
func renderPage(w http.ResponseWriter, log *slog.Logger, status int, name string, data any) {
	var buf strings.Builder
	if err := templates.Render(&buf, name, data); err != nil {
		log.Error("failed to render template", "template", name, "error", err)
		respondText(w, http.StatusInternalServerError, errInternal)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, buf.String())
}

func renderResult(w http.ResponseWriter, log *slog.Logger, status int, title, message string) {
	renderPage(w, log, status, "result.html", templates.Result{Title: title, Message: message})
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

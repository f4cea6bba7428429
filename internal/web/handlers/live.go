package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/amirhossein5/facestore/internal/facematch"
	"github.com/amirhossein5/facestore/internal/uploads"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

const (
	liveFrameName = "live.jpeg"

	replyNoFace  = "no-face"
	replyNoMatch = "no-match"
	replyError   = "error"
	replyMatch   = "match:"
)

// LiveHandler identifies faces in frames pushed over a websocket, e.g. from
// a browser camera, and serves the latest frame as an MJPEG stream. Frames
// are kept in frameDir, which must not be shared with user uploads.
type LiveHandler struct {
	store         FaceStore
	encoder       facematch.Encoder
	frameDir      string
	frameInterval time.Duration
	log           *slog.Logger
}

func NewLiveHandler(faces FaceStore, encoder facematch.Encoder, frameDir string, log *slog.Logger) *LiveHandler {
	return &LiveHandler{
		store:         faces,
		encoder:       encoder,
		frameDir:      frameDir,
		frameInterval: 500 * time.Millisecond,
		log:           log,
	}
}

func (h *LiveHandler) framePath() string {
	return filepath.Join(h.frameDir, liveFrameName)
}

// Identify answers every received image with "match:<name>", "no-match",
// "no-face" or "error".
func (h *LiveHandler) Identify(ws *websocket.Conn) {
	session := uuid.New().String()
	log := h.log.With("session", session)
	ctx := ws.Request().Context()

	log.Info("live session started")
	defer log.Info("live session ended")

	for {
		var buf []byte
		if err := websocket.Message.Receive(ws, &buf); err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn("failed to read websocket data", "error", err)
			}
			return
		}

		if _, err := uploads.Save(h.frameDir, liveFrameName, bytes.NewReader(buf)); err != nil {
			log.Warn("image write failed", "error", err)
		}

		reply := h.identify(ctx, log, session, buf)
		if err := websocket.Message.Send(ws, reply); err != nil {
			log.Warn("failed to send websocket reply", "error", err)
			return
		}
	}
}

func (h *LiveHandler) identify(ctx context.Context, log *slog.Logger, session string, frame []byte) string {
	encoding, err := h.encoder.EncodeFirst(frame)
	if errors.Is(err, facematch.ErrNoFace) {
		return replyNoFace
	}
	if err != nil {
		log.Warn("can't recognize frame", "error", err)
		return replyError
	}

	name, found, err := h.store.FindMatch(ctx, encoding)
	if err != nil {
		log.Error("failed to search faces", "error", err)
		return replyError
	}

	if err := h.store.RecordSighting(ctx, "live:"+session, name); err != nil {
		log.Warn("failed to record sighting", "error", err)
	}

	if !found {
		return replyNoMatch
	}
	return replyMatch + name
}

// Stream serves the most recent live frame as multipart/x-mixed-replace until
// the client goes away.
func (h *LiveHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.framePath()); err != nil {
		respondText(w, http.StatusNotFound, "No live frame yet")
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	boundary := "\r\n--frame\r\nContent-Type: image/jpeg\r\n\r\n"

	ticker := time.NewTicker(h.frameInterval)
	defer ticker.Stop()

	for {
		if err := h.writeFrame(w, boundary); err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *LiveHandler) writeFrame(w io.Writer, boundary string) error {
	frame, err := os.ReadFile(h.framePath())
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, boundary); err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\r\n")
	return err
}

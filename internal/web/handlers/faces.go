package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/amirhossein5/facestore/internal/facematch"
	"github.com/amirhossein5/facestore/internal/imaging"
	"github.com/amirhossein5/facestore/internal/models"
	"github.com/amirhossein5/facestore/internal/store"
	"github.com/amirhossein5/facestore/internal/uploads"
	"github.com/amirhossein5/facestore/internal/web/templates"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// FacesHandler serves the HTML upload pages for known and unknown faces.
type FacesHandler struct {
	store         FaceStore
	encoder       facematch.Encoder
	knownDir      string
	unknownDir    string
	maxUploadSize int64
	log           *slog.Logger
}

func NewFacesHandler(faces FaceStore, encoder facematch.Encoder, knownDir, unknownDir string, maxUploadSize int64, log *slog.Logger) *FacesHandler {
	return &FacesHandler{
		store:         faces,
		encoder:       encoder,
		knownDir:      knownDir,
		unknownDir:    unknownDir,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

func (h *FacesHandler) Index(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.log, http.StatusOK, "index.html", nil)
}

func (h *FacesHandler) UploadKnownForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.log, http.StatusOK, "upload.html", templates.Upload{Title: "Upload Known Faces", Action: "/upload_known"})
}

func (h *FacesHandler) UploadUnknownForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.log, http.StatusOK, "upload.html", templates.Upload{Title: "Upload Unknown Faces", Action: "/upload_unknown"})
}

// UploadKnown enrols the uploaded face under its file name unless the same
// face or the same name is already stored. The image only lands in the known
// directory once the face is stored.
func (h *FacesHandler) UploadKnown(w http.ResponseWriter, r *http.Request) {
	filename, img, ok := h.receive(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	staged, err := uploads.Stage(h.knownDir, filename, bytes.NewReader(img))
	if err != nil {
		h.fail(w, "failed to save upload", err)
		return
	}
	defer staged.Discard()

	encoding, ok := h.encode(w, filename, img, h.encoder.Encode)
	if !ok {
		return
	}

	similar, err := h.store.ContainsSimilar(ctx, encoding)
	if err != nil {
		h.fail(w, "failed to check for similar faces", err)
		return
	}
	if similar {
		renderResult(w, h.log, http.StatusConflict, "Error",
			fmt.Sprintf("The face in image %s already exists in the database.", filename))
		return
	}

	err = h.store.Add(ctx, filename, encoding)
	if errors.Is(err, store.ErrDuplicateName) {
		renderResult(w, h.log, http.StatusConflict, "Error",
			fmt.Sprintf("A face named %s already exists in the database.", filename))
		return
	}
	if err != nil {
		h.fail(w, "failed to store face", err)
		return
	}

	if _, err := staged.Commit(); err != nil {
		h.fail(w, "face stored but its image could not be saved", err)
		return
	}

	h.log.Info("face enrolled", "name", sanitizeForLog(filename))
	renderResult(w, h.log, http.StatusOK, "Success",
		fmt.Sprintf("Face %s was uploaded successfully!", filename))
}

// UploadUnknown reports which stored face, if any, the uploaded image matches.
// Group photos are looked up by the first face detected.
func (h *FacesHandler) UploadUnknown(w http.ResponseWriter, r *http.Request) {
	filename, img, ok := h.receive(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if _, err := uploads.Save(h.unknownDir, filename, bytes.NewReader(img)); err != nil {
		h.fail(w, "failed to save upload", err)
		return
	}

	encoding, ok := h.encode(w, filename, img, h.encoder.EncodeFirst)
	if !ok {
		return
	}

	name, found, err := h.store.FindMatch(ctx, encoding)
	if err != nil {
		h.fail(w, "failed to search faces", err)
		return
	}

	if err := h.store.RecordSighting(ctx, filename, name); err != nil {
		h.log.Warn("failed to record sighting", "filename", sanitizeForLog(filename), "error", err)
	}

	if !found {
		respondText(w, http.StatusOK, fmt.Sprintf("Image %s does not match any known face.", filename))
		return
	}
	renderResult(w, h.log, http.StatusOK, "Success", fmt.Sprintf("Image %s matches %s.", filename, name))
}

// receive reads the uploaded "file" part. It writes the error response itself
// and returns ok=false when the request cannot go on.
func (h *FacesHandler) receive(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respondText(w, http.StatusRequestEntityTooLarge, "File too large")
		case errors.Is(err, http.ErrNotMultipart):
			respondText(w, http.StatusBadRequest, "No file part")
		default:
			respondText(w, http.StatusBadRequest, "Invalid upload")
		}
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		// browsers send an empty file input as a plain value
		if _, sent := r.MultipartForm.Value["file"]; sent {
			respondText(w, http.StatusBadRequest, "No selected file")
		} else {
			respondText(w, http.StatusBadRequest, "No file part")
		}
		return "", nil, false
	}
	if err != nil {
		respondText(w, http.StatusBadRequest, "Invalid upload")
		return "", nil, false
	}
	defer file.Close()

	filename, err := uploads.CleanName(header.Filename)
	if err != nil {
		respondText(w, http.StatusBadRequest, "No selected file")
		return "", nil, false
	}

	img, err := io.ReadAll(file)
	if err != nil {
		respondText(w, http.StatusBadRequest, "Invalid upload")
		return "", nil, false
	}

	return filename, img, true
}

// encode runs fn on img and, like receive, answers the request itself when no
// encoding comes out.
func (h *FacesHandler) encode(w http.ResponseWriter, filename string, img []byte, fn func([]byte) (models.Encoding, error)) (models.Encoding, bool) {
	encoding, err := fn(img)
	switch {
	case errors.Is(err, facematch.ErrNoFace):
		respondText(w, http.StatusUnprocessableEntity, fmt.Sprintf("No face found in image %s.", filename))
		return nil, false
	case errors.Is(err, facematch.ErrMultipleFaces):
		respondText(w, http.StatusUnprocessableEntity, fmt.Sprintf("More than one face found in image %s.", filename))
		return nil, false
	case errors.Is(err, imaging.ErrUnsupportedImage):
		respondText(w, http.StatusBadRequest, fmt.Sprintf("Could not read image %s.", filename))
		return nil, false
	case err != nil:
		h.fail(w, "failed to encode face", err)
		return nil, false
	}
	return encoding, true
}

func (h *FacesHandler) fail(w http.ResponseWriter, msg string, err error) {
	h.log.Error(msg, "error", err)
	respondText(w, http.StatusInternalServerError, errInternal)
}

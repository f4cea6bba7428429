// Package recognizer produces face encodings with dlib through go-face.
package recognizer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Kagami/go-face"
	"github.com/amirhossein5/facestore/internal/facematch"
	"github.com/amirhossein5/facestore/internal/imaging"
	"github.com/amirhossein5/facestore/internal/models"
)

type Options struct {
	ModelsDir    string
	UseCNN       bool
	MaxImageSize int
}

// Recognizer implements facematch.Encoder. dlib calls are serialised.
type Recognizer struct {
	mu   sync.Mutex
	rec  *face.Recognizer
	opts Options
	log  *slog.Logger
}

var _ facematch.Encoder = (*Recognizer)(nil)

func New(opts Options, log *slog.Logger) (*Recognizer, error) {
	log.Info("initializing face-recognition-models...", "dir", opts.ModelsDir)

	rec, err := face.NewRecognizer(opts.ModelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load recognizer: %w", err)
	}

	return &Recognizer{rec: rec, opts: opts, log: log}, nil
}

func (r *Recognizer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rec != nil {
		r.rec.Close()
		r.rec = nil
	}
}

func (r *Recognizer) Encode(img []byte) (models.Encoding, error) {
	faces, err := r.faces(img)
	if err != nil {
		return nil, err
	}
	if len(faces) > 1 {
		r.log.Debug("image rejected", "faces", len(faces))
		return nil, facematch.ErrMultipleFaces
	}
	return descriptorToEncoding(faces[0].Descriptor), nil
}

func (r *Recognizer) EncodeFirst(img []byte) (models.Encoding, error) {
	faces, err := r.faces(img)
	if err != nil {
		return nil, err
	}
	if len(faces) > 1 {
		r.log.Debug("using first of several faces", "faces", len(faces))
	}
	return descriptorToEncoding(faces[0].Descriptor), nil
}

// faces returns at least one detected face or ErrNoFace.
func (r *Recognizer) faces(img []byte) ([]face.Face, error) {
	jpg, err := imaging.ToJPEG(img, r.opts.MaxImageSize)
	if err != nil {
		return nil, err
	}

	faces, err := r.detect(jpg)
	if err != nil {
		return nil, fmt.Errorf("failed to recognize given buffer: %w", err)
	}
	if len(faces) == 0 {
		return nil, facematch.ErrNoFace
	}
	return faces, nil
}

func (r *Recognizer) detect(jpg []byte) ([]face.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rec == nil {
		return nil, fmt.Errorf("recognizer is closed")
	}
	if r.opts.UseCNN {
		return r.rec.RecognizeCNN(jpg)
	}
	return r.rec.Recognize(jpg)
}

func descriptorToEncoding(d face.Descriptor) models.Encoding {
	enc := make(models.Encoding, len(d))
	for i, v := range d {
		enc[i] = float64(v)
	}
	return enc
}

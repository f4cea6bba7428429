// Package facematchtest provides a deterministic stand-in for the dlib
// recogniser.
package facematchtest

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/amirhossein5/facestore/internal/facematch"
	"github.com/amirhossein5/facestore/internal/imaging"
	"github.com/amirhossein5/facestore/internal/models"
)

const Dimensions = 128

var (
	NoFacePrefix     = []byte("noface")
	TwoFacesPrefix   = []byte("twofaces")
	UnreadablePrefix = []byte("garbage")
)

// Encoder derives a 128-d encoding from a hash of the image bytes, so equal
// images always match and different images are far apart. Images starting
// with TwoFacesPrefix hold several faces: EncodeFirst still returns their
// encoding.
type Encoder struct {
	// Calls counts Encode and EncodeFirst invocations.
	Calls atomic.Int64
}

func (e *Encoder) Encode(img []byte) (models.Encoding, error) {
	if bytes.HasPrefix(img, TwoFacesPrefix) {
		e.Calls.Add(1)
		return nil, facematch.ErrMultipleFaces
	}
	return e.EncodeFirst(img)
}

func (e *Encoder) EncodeFirst(img []byte) (models.Encoding, error) {
	e.Calls.Add(1)

	if bytes.HasPrefix(img, NoFacePrefix) {
		return nil, facematch.ErrNoFace
	}
	if bytes.HasPrefix(img, UnreadablePrefix) {
		return nil, fmt.Errorf("%w: unknown format", imaging.ErrUnsupportedImage)
	}
	return EncodingOf(img), nil
}

// EncodingOf returns the encoding Encoder produces for img.
func EncodingOf(img []byte) models.Encoding {
	enc := make(models.Encoding, 0, Dimensions)
	seed := sha256.Sum256(img)
	for len(enc) < Dimensions {
		for i := 0; i+2 <= len(seed) && len(enc) < Dimensions; i += 2 {
			enc = append(enc, float64(binary.BigEndian.Uint16(seed[i:]))/65535)
		}
		seed = sha256.Sum256(seed[:])
	}
	return enc
}

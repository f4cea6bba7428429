// Package facematch holds the contracts between the face store, the front
// ends and the recognition backend, plus the similarity predicate.
package facematch

import (
	"errors"
	"math"

	"github.com/amirhossein5/facestore/internal/models"
)

// DefaultTolerance is the distance below which two dlib descriptors are
// considered the same person.
const DefaultTolerance = 0.6

var (
	ErrNoFace        = errors.New("no face detected")
	ErrMultipleFaces = errors.New("more than one face detected")
)

// Encoder turns an image into a face encoding.
type Encoder interface {
	// Encode returns the encoding of the single face in img, or ErrNoFace or
	// ErrMultipleFaces when img does not hold exactly one face. Enrolment
	// uses it.
	Encode(img []byte) (models.Encoding, error)
	// EncodeFirst returns the encoding of the first face detected in img and
	// ignores the rest. Lookups use it.
	EncodeFirst(img []byte) (models.Encoding, error)
}

// Matcher decides whether a candidate encoding belongs to the same person as
// a known one.
type Matcher interface {
	Match(known, candidate models.Encoding) bool
}

type EuclideanMatcher struct {
	Tolerance float64
}

func NewEuclideanMatcher(tolerance float64) EuclideanMatcher {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return EuclideanMatcher{Tolerance: tolerance}
}

func (m EuclideanMatcher) Match(known, candidate models.Encoding) bool {
	return Distance(known, candidate) <= m.Tolerance
}

// Distance returns the Euclidean distance between two encodings, or +Inf when
// they cannot be compared.
func Distance(a, b models.Encoding) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

package models

import (
	"database/sql/driver"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var ErrInvalidEncoding = errors.New("invalid face encoding")

// Encoding is a face descriptor. It is persisted as raw little-endian
// float64 values, the same layout numpy produces with tobytes().
type Encoding []float64

func (e Encoding) Bytes() []byte {
	buf := make([]byte, len(e)*8)
	for i, v := range e {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func DecodeEncoding(buf []byte) (Encoding, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of 8", ErrInvalidEncoding, len(buf))
	}

	e := make(Encoding, len(buf)/8)
	for i := range e {
		e[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return e, nil
}

func (e Encoding) Value() (driver.Value, error) {
	return e.Bytes(), nil
}

func (e *Encoding) Scan(src any) error {
	var buf []byte
	switch v := src.(type) {
	case []byte:
		buf = v
	case string:
		buf = []byte(v)
	case nil:
		*e = nil
		return nil
	default:
		return fmt.Errorf("%w: unsupported column type %T", ErrInvalidEncoding, src)
	}

	decoded, err := DecodeEncoding(buf)
	if err != nil {
		return err
	}
	*e = decoded
	return nil
}

func (Encoding) GormDataType() string {
	return "blob"
}

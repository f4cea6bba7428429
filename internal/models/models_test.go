package models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEncoding_BytesLayout(t *testing.T) {
	// 1.0 is 0x3FF0000000000000, stored little-endian.
	buf := Encoding{1.0}.Bytes()
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}, buf)
}

func TestDecodeEncoding_RejectsTruncatedBlob(t *testing.T) {
	_, err := DecodeEncoding(make([]byte, 12))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestEncoding_ScanRejectsUnknownType(t *testing.T) {
	var e Encoding
	assert.ErrorIs(t, e.Scan(42), ErrInvalidEncoding)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "models.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Face{}, &Sighting{}))
	return db
}

func TestFace_PersistsEncoding(t *testing.T) {
	db := openTestDB(t)

	want := Encoding{0.25, -1.5, 3}
	require.NoError(t, db.Create(&Face{Name: "alice.jpg", Encoding: want}).Error)

	var got Face
	require.NoError(t, db.Where("name = ?", "alice.jpg").First(&got).Error)
	assert.Equal(t, want, got.Encoding)
}

func TestSighting_BeforeCreateSetsResult(t *testing.T) {
	db := openTestDB(t)

	matched := Sighting{Filename: "a.jpg", MatchedName: "alice.jpg"}
	unmatched := Sighting{Filename: "b.jpg"}
	require.NoError(t, db.Create(&matched).Error)
	require.NoError(t, db.Create(&unmatched).Error)

	assert.Equal(t, SIGHTING_RESULT_MATCHED, matched.Result)
	assert.Equal(t, SIGHTING_RESULT_UNMATCHED, unmatched.Result)
}

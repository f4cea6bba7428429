package models

// Face is one enrolled person: a unique name and the encoding of their face.
// Rows are only ever inserted.
type Face struct {
	ID       uint64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string   `gorm:"unique;not null" json:"name"`
	Encoding Encoding `gorm:"not null" json:"-"`
}

func (Face) TableName() string {
	return "faces"
}

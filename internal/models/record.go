package models

import "time"

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Record is a journal entry about one calendar day.
type Record struct {
	ID         uint      `gorm:"primaryKey"`
	Title      string    `gorm:"size:200;not null"`
	Content    string    `gorm:"type:text;not null"`
	Mood       string    `gorm:"size:20"`
	Weather    string    `gorm:"size:20"`
	Location   string    `gorm:"size:100"`
	RecordDate time.Time `gorm:"type:date;index;not null"` // the day the entry is about
	Tags       string    `gorm:"size:500"`                 // see EncodeTags / DecodeTags
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Media []Media `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE"`
}

func (Record) TableName() string { return "life_record" }

// Media is one uploaded file owned by a record.
type Media struct {
	ID        uint   `gorm:"primaryKey"`
	Filename  string `gorm:"size:255;not null"` // stored name, "<record id>_<original>"
	FileType  string `gorm:"size:20"`           // image / video / audio / ...
	RecordID  uint   `gorm:"index;not null"`
	CreatedAt time.Time
}

func (Media) TableName() string { return "media_file" }

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

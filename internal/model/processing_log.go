package model

// ProcessingLog is the append-only audit trail of the worker. One row per
// attempt per status change, never updated after insert.
type ProcessingLog struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	FileID       uint    `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"file_id"`
	Attempt      int     `gorm:"not null" json:"attempt"`
	Status       string  `gorm:"not null" json:"status"`
	ErrorMessage *string `json:"error_message,omitempty"`
	LoggedAt     int64   `gorm:"autoCreateTime" json:"logged_at"`
}

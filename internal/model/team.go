package model

type Team struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt int64  `gorm:"autoCreateTime" json:"created_at"`
}

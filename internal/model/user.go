package model

const (
	RoleAdmin = "admin"
	RoleTim   = "tim"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"not null;default:tim" json:"role"`
	TeamID       *uint  `json:"team_id,omitempty"`
	CreatedAt    int64  `gorm:"autoCreateTime" json:"created_at"`
}

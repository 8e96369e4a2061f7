package adminservice

import (
	"database/sql"
	"time"
)

type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url"`
	Blocked   bool      `json:"blocked"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type ProfileModel struct {
	db *sql.DB
}

type AdminService struct {
	m *ProfileModel
}

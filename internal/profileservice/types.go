package profileservice

import (
	"database/sql"
	"time"
)

type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

type ProfileModel struct {
	db *sql.DB
}

type ProfileService struct {
	m *ProfileModel
}

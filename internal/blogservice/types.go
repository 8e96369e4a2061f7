package blogservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/harutoki/blogdeck/internal/common"
)

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Thumbnail string    `json:"thumbnail"`
	AuthorID  string    `json:"author_id"`
	// AuthorName is populated from the profiles join on list queries.
	AuthorName string    `json:"author_name,omitempty"`
	Reads      int       `json:"reads"`
	Likes      int       `json:"likes"`
	CreatedAt  time.Time `json:"created_at"`
}

type PostModel struct {
	db *sql.DB
}

type BlogService struct {
	m      *PostModel
	c      *common.Cache
	mb     common.MessageProducer
	logger *slog.Logger
}

package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateLike    = errors.New("like already exists")
	ErrDuplicateRead    = errors.New("read already recorded")
	ErrAuthorForeignKey = errors.New("author_id does not exist")
)

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

// UniqueViolationError is a helper function to check if the error is a unique constraint error.
func UniqueViolationError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *PostModel) insert(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO blog_posts (title, excerpt, content, category, tags, thumbnail, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, reads, likes, created_at`

	args := []any{post.Title, post.Excerpt, post.Content, post.Category, pq.Array(post.Tags), post.Thumbnail, post.AuthorID}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&post.ID, &post.Reads, &post.Likes, &post.CreatedAt)
	if err != nil {
		switch {
		case ForeignKeyError(err, "blog_posts_author_id_fkey"):
			return ErrAuthorForeignKey
		default:
			return err
		}
	}

	return nil
}

// getPosts builds the WHERE clause dynamically from the optional category and
// author filters, joining the profiles table for the author's display name.
func (m *PostModel) getPosts(ctx context.Context, category, author string) ([]Post, error) {
	query := `
		SELECT p.id, p.title, p.excerpt, p.content, p.category, p.tags, p.thumbnail, p.author_id, pr.username, p.reads, p.likes, p.created_at
		FROM blog_posts p
		JOIN profiles pr ON p.author_id = pr.id`

	var conditions []string
	var args []any

	if category != "" {
		args = append(args, category)
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", len(args)))
	}

	if author != "" {
		args = append(args, author)
		conditions = append(conditions, fmt.Sprintf("p.author_id = $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY p.created_at DESC"

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		err := rows.Scan(&post.ID, &post.Title, &post.Excerpt, &post.Content, &post.Category, pq.Array(&post.Tags), &post.Thumbnail, &post.AuthorID, &post.AuthorName, &post.Reads, &post.Likes, &post.CreatedAt)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (m *PostModel) getPostById(ctx context.Context, id string) (*Post, error) {
	query := `
		SELECT id, title, excerpt, content, category, tags, thumbnail, author_id, reads, likes, created_at
		FROM blog_posts
		WHERE id = $1`

	row := m.db.QueryRowContext(ctx, query, id)

	var post Post
	err := row.Scan(&post.ID, &post.Title, &post.Excerpt, &post.Content, &post.Category, pq.Array(&post.Tags), &post.Thumbnail, &post.AuthorID, &post.Reads, &post.Likes, &post.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &post, nil
}

func (m *PostModel) likeExists(ctx context.Context, postID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM blog_likes
			WHERE post_id = $1 AND user_id = $2
		)`

	var exists bool
	err := m.db.QueryRowContext(ctx, query, postID, userID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (m *PostModel) insertLike(ctx context.Context, postID, userID string) error {
	query := `
		INSERT INTO blog_likes (post_id, user_id)
		VALUES ($1, $2)`

	_, err := m.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		switch {
		case UniqueViolationError(err, "blog_likes_post_id_user_id_key"):
			return ErrDuplicateLike
		default:
			return err
		}
	}

	return nil
}

// getLikes reads the counter back from blog_posts. The trigger on blog_likes
// owns the increment; this code never computes the value.
func (m *PostModel) getLikes(ctx context.Context, postID string) (int, error) {
	query := `
		SELECT likes FROM blog_posts
		WHERE id = $1`

	var likes int
	err := m.db.QueryRowContext(ctx, query, postID).Scan(&likes)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, ErrRecordNotFound
		default:
			return 0, err
		}
	}

	return likes, nil
}

func (m *PostModel) insertRead(ctx context.Context, postID, userID string) error {
	query := `
		INSERT INTO blog_reads (post_id, user_id)
		VALUES ($1, $2)`

	_, err := m.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		switch {
		case UniqueViolationError(err, "blog_reads_post_id_user_id_key"):
			return ErrDuplicateRead
		default:
			return err
		}
	}

	return nil
}

// incrementReads calls the increment_blog_reads function and returns the new
// counter value. The function returns NULL when the post does not exist.
func (m *PostModel) incrementReads(ctx context.Context, postID string) (int, error) {
	query := `SELECT increment_blog_reads($1)`

	var reads sql.NullInt64
	err := m.db.QueryRowContext(ctx, query, postID).Scan(&reads)
	if err != nil {
		return 0, err
	}

	if !reads.Valid {
		return 0, ErrRecordNotFound
	}

	return int(reads.Int64), nil
}

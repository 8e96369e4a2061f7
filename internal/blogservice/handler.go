package blogservice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/harutoki/blogdeck/internal/common"
)

func NewBlogService(db *common.PublicDB, c *common.Cache, mb common.MessageProducer, logger *slog.Logger) *BlogService {
	return &BlogService{m: newPostModel(db.DB), c: c, mb: mb, logger: logger}
}

type CreatePostRequest struct {
	Title     string   `json:"title"`
	Excerpt   string   `json:"excerpt"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Thumbnail string   `json:"thumbnail"`
	AuthorID  string   `json:"author_id"`
}

// CreatePost inserts a new post and returns the stored row.
func (s *BlogService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateUUID(v, req.AuthorID, "author_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post := &Post{
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   sanitizeHTML(req.Content),
		Category:  req.Category,
		Tags:      req.Tags,
		Thumbnail: req.Thumbnail,
		AuthorID:  req.AuthorID,
	}

	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := s.m.insert(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// GetPosts returns posts filtered by the optional category and author
// identifiers, newest first.
func (s *BlogService) GetPosts(ctx context.Context, category, author string) ([]Post, error) {
	v := common.NewValidator()
	if author != "" {
		validateUUID(v, author, "author")
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getPosts(ctx, category, author)
}

// GetPostByID returns a single post. Lookups are cached briefly so that
// crawler bursts against the share page do not hit the database every time.
func (s *BlogService) GetPostByID(ctx context.Context, id string) (*Post, error) {
	v := common.NewValidator()
	validateUUID(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	key := common.CacheKeyPost(id)
	if cached, ok := s.c.Get(key); ok {
		return cached.(*Post), nil
	}

	post, err := s.m.getPostById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, post, time.Minute)

	return post, nil
}

// LikePost records a like for the given (post, user) pair. The operation is
// idempotent: an existing like, or an insert lost to a concurrent duplicate,
// reports liked=false. The counter is always read back from the store; when
// that read fails the counter is nil rather than an error.
func (s *BlogService) LikePost(ctx context.Context, postID, userID string) (bool, *int, error) {
	v := common.NewValidator()
	validateUUID(v, postID, "post_id")
	validateUUID(v, userID, "user_id")
	if !v.Valid() {
		return false, nil, v.ValidationError()
	}

	exists, err := s.m.likeExists(ctx, postID, userID)
	if err != nil {
		return false, nil, err
	}

	if exists {
		return false, s.readLikes(ctx, postID), nil
	}

	err = s.m.insertLike(ctx, postID, userID)
	if err != nil {
		// a lost race against a concurrent insert means the like exists
		return false, s.readLikes(ctx, postID), nil
	}

	s.publishEngagement(ctx, common.PostLikedKey, postID, userID)

	return true, s.readLikes(ctx, postID), nil
}

func (s *BlogService) readLikes(ctx context.Context, postID string) *int {
	likes, err := s.m.getLikes(ctx, postID)
	if err != nil {
		s.logger.Error("could not read like counter", slog.String("post_id", postID), slog.String("error", err.Error()))
		return nil
	}
	return &likes
}

// RecordRead credits one read of a post. Authenticated reads go through the
// dedup table, whose trigger increments the counter; a duplicate row means no
// new read. Any other insert failure falls back to the increment function.
// Anonymous reads skip the dedup table and call the function directly.
func (s *BlogService) RecordRead(ctx context.Context, postID string, userID *string) (int, *int, error) {
	v := common.NewValidator()
	validateUUID(v, postID, "post_id")
	if userID != nil {
		validateUUID(v, *userID, "user_id")
	}
	if !v.Valid() {
		return 0, nil, v.ValidationError()
	}

	if userID == nil {
		reads, err := s.m.incrementReads(ctx, postID)
		if err != nil {
			return 0, nil, err
		}
		s.publishEngagement(ctx, common.PostReadKey, postID, "")
		return 1, &reads, nil
	}

	err := s.m.insertRead(ctx, postID, *userID)
	switch {
	case err == nil:
		s.publishEngagement(ctx, common.PostReadKey, postID, *userID)
		return 1, nil, nil
	case errors.Is(err, ErrDuplicateRead):
		return 0, nil, nil
	default:
		s.logger.Error("read dedup insert failed, falling back to increment", slog.String("post_id", postID), slog.String("error", err.Error()))

		reads, err := s.m.incrementReads(ctx, postID)
		if err != nil {
			return 0, nil, err
		}
		s.publishEngagement(ctx, common.PostReadKey, postID, *userID)
		return 1, &reads, nil
	}
}

type engagementEvent struct {
	PostID string    `json:"post_id"`
	UserID string    `json:"user_id,omitempty"`
	At     time.Time `json:"at"`
}

// publishEngagement is fire-and-forget: a broker failure must not fail the
// request that triggered it.
func (s *BlogService) publishEngagement(ctx context.Context, key common.BindingKey, postID, userID string) {
	event := engagementEvent{PostID: postID, UserID: userID, At: time.Now().UTC()}

	msg, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("could not marshal engagement event", slog.String("error", err.Error()))
		return
	}

	if err := s.mb.Publish(ctx, msg, key, common.EngagementExchange); err != nil {
		s.logger.Error("could not publish engagement event", slog.String("key", string(key)), slog.String("error", err.Error()))
	}
}

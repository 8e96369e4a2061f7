package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/harutoki/blogdeck/internal/captchaservice"
	"github.com/harutoki/blogdeck/internal/common"
)

func TestHealthCheckHandler(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/v1/healthcheck")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "available", body["status"])

	info := body["system_info"].(map[string]any)
	assert.Equal(t, "test", info["environment"])
	assert.Equal(t, "test", info["version"])
}

func TestLikePostHandler(t *testing.T) {
	app, db, producer := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	author := createTestProfile(t, db, "author", "author@example.com", "user")
	reader := createTestProfile(t, db, "reader", "reader@example.com", "user")
	post := createTestPost(t, db, author, "Hello World", "", "some content")

	t.Run("First Like", func(t *testing.T) {
		status, _, body := ts.post(t, "/api/blog/like", map[string]any{"post_id": post, "user_id": reader})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["liked"])
		assert.Equal(t, float64(1), body["likes"])
		assert.Equal(t, 1, producer.Published(common.PostLikedKey))
	})

	t.Run("Second Like Is Idempotent", func(t *testing.T) {
		status, _, body := ts.post(t, "/api/blog/like", map[string]any{"post_id": post, "user_id": reader})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["liked"])
		assert.Equal(t, float64(1), body["likes"])
		assert.Equal(t, 1, producer.Published(common.PostLikedKey))
	})

	t.Run("Unknown Post Reports Not Liked", func(t *testing.T) {
		status, _, body := ts.post(t, "/api/blog/like", map[string]any{"post_id": uuid.New().String(), "user_id": reader})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["liked"])
		assert.Nil(t, body["likes"])
	})

	t.Run("Missing User", func(t *testing.T) {
		status, _, _ := ts.post(t, "/api/blog/like", map[string]any{"post_id": post})

		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Malformed Post ID", func(t *testing.T) {
		status, _, _ := ts.post(t, "/api/blog/like", map[string]any{"post_id": "not-a-uuid", "user_id": reader})

		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestReadPostHandler(t *testing.T) {
	app, db, producer := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	author := createTestProfile(t, db, "author", "author@example.com", "user")
	reader := createTestProfile(t, db, "reader", "reader@example.com", "user")
	post := createTestPost(t, db, author, "Hello World", "", "some content")

	t.Run("First Read Counts", func(t *testing.T) {
		status, _, body := ts.post(t, "/api/blog/read", map[string]any{"post_id": post, "user_id": reader})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), body["inserted"])
		assert.Equal(t, 1, producer.Published(common.PostReadKey))
	})

	t.Run("Second Read Does Not Count", func(t *testing.T) {
		status, _, body := ts.post(t, "/api/blog/read", map[string]any{"post_id": post, "user_id": reader})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(0), body["inserted"])

		var reads int
		err := db.QueryRow("SELECT reads FROM blog_posts WHERE id = $1", post).Scan(&reads)
		assert.NoError(t, err)
		assert.Equal(t, 1, reads)
	})

	t.Run("Anonymous Read Skips Dedup Table", func(t *testing.T) {
		status, _, body := ts.post(t, "/api/blog/read", map[string]any{"post_id": post})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), body["inserted"])
		assert.Equal(t, float64(2), body["reads"])

		var rows int
		err := db.QueryRow("SELECT count(*) FROM blog_reads WHERE post_id = $1", post).Scan(&rows)
		assert.NoError(t, err)
		assert.Equal(t, 1, rows)
	})

	t.Run("Anonymous Read Of Unknown Post", func(t *testing.T) {
		status, _, _ := ts.post(t, "/api/blog/read", map[string]any{"post_id": uuid.New().String()})

		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("Failed Dedup Insert Falls Back To Increment", func(t *testing.T) {
		// a user id with no profile row violates the foreign key, which is
		// not a duplicate, so the read is credited through the increment
		// function instead
		status, _, body := ts.post(t, "/api/blog/read", map[string]any{"post_id": post, "user_id": uuid.New().String()})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), body["inserted"])
		assert.Equal(t, float64(3), body["reads"])

		var rows int
		err := db.QueryRow("SELECT count(*) FROM blog_reads WHERE post_id = $1", post).Scan(&rows)
		assert.NoError(t, err)
		assert.Equal(t, 1, rows)
	})
}

func TestAdminListUsersHandler(t *testing.T) {
	app, db, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	createTestProfile(t, db, "sale", "sale@example.com", "user")
	createTestProfile(t, db, "percy", "percy@example.com", "editor")

	_, err := db.Exec("UPDATE profiles SET full_name = '50% off deals' WHERE username = 'sale'")
	assert.NoError(t, err)
	_, err = db.Exec("UPDATE profiles SET full_name = '50 percent off' WHERE username = 'percy'")
	assert.NoError(t, err)

	t.Run("Lists All", func(t *testing.T) {
		status, _, body := ts.get(t, "/api/admin/list-users")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["ok"])
		assert.Equal(t, float64(2), body["count"])
	})

	t.Run("Percent Sign Is Literal", func(t *testing.T) {
		status, _, body := ts.get(t, "/api/admin/list-users?search=50%25+off")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), body["count"])

		data := body["data"].([]any)
		row := data[0].(map[string]any)
		assert.Equal(t, "50% off deals", row["full_name"])
	})

	t.Run("Role Filter", func(t *testing.T) {
		status, _, body := ts.get(t, "/api/admin/list-users?role=editor")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("Pagination Clamped", func(t *testing.T) {
		status, _, body := ts.get(t, "/api/admin/list-users?page=0&pageSize=1")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(2), body["count"])
		assert.Len(t, body["data"].([]any), 1)
	})

	t.Run("POST Body Overrides Query", func(t *testing.T) {
		status, _, body := ts.post(t, "/api/admin/list-users", map[string]any{"role": "editor"})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("Chunked POST Body Overrides Query", func(t *testing.T) {
		// wrapping the reader hides its length, so the request is sent with
		// chunked transfer encoding and ContentLength -1
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/admin/list-users", io.NopCloser(strings.NewReader(`{"role": "editor"}`)))
		assert.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		res, err := ts.Client().Do(req)
		assert.NoError(t, err)

		status, _, body := readResponse(t, res)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("POST Without Body Keeps Query", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/admin/list-users?role=editor", nil)
		assert.NoError(t, err)

		res, err := ts.Client().Do(req)
		assert.NoError(t, err)

		status, _, body := readResponse(t, res)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), body["count"])
	})
}

func TestCreatePostHandler(t *testing.T) {
	app, db, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	author := createTestProfile(t, db, "author", "author@example.com", "super_admin")

	t.Run("Role Gate", func(t *testing.T) {
		status, _, _ := ts.post(t, "/api/blog/posts", map[string]any{
			"title":     "My Post",
			"content":   "content",
			"author_id": author,
			"role":      "user",
		})

		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("Role Gate Beats Validation", func(t *testing.T) {
		status, _, _ := ts.post(t, "/api/blog/posts", map[string]any{"role": "editor"})

		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("Valid Request", func(t *testing.T) {
		status, _, body := ts.post(t, "/api/blog/posts", map[string]any{
			"title":     "My Post",
			"excerpt":   "a short excerpt",
			"content":   "full content",
			"category":  "news",
			"tags":      []string{"go", "blog"},
			"author_id": author,
			"role":      "super_admin",
		})

		assert.Equal(t, http.StatusCreated, status)
		assert.NotEmpty(t, body["id"])
		assert.Equal(t, "My Post", body["title"])
		assert.Equal(t, float64(0), body["likes"])
	})

	t.Run("Missing Title", func(t *testing.T) {
		status, _, _ := ts.post(t, "/api/blog/posts", map[string]any{
			"content":   "content",
			"author_id": author,
			"role":      "super_admin",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})
}

func TestListPostsHandler(t *testing.T) {
	app, db, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	author := createTestProfile(t, db, "author", "author@example.com", "user")
	other := createTestProfile(t, db, "other", "other@example.com", "user")

	_, err := db.Exec("INSERT INTO blog_posts (title, content, category, author_id) VALUES ($1, $2, $3, $4)", "Go Post", "content", "tech", author)
	assert.NoError(t, err)
	_, err = db.Exec("INSERT INTO blog_posts (title, content, category, author_id) VALUES ($1, $2, $3, $4)", "Food Post", "content", "food", other)
	assert.NoError(t, err)

	t.Run("All Posts", func(t *testing.T) {
		status, posts := ts.getArray(t, "/api/blog/posts")

		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, posts, 2)
	})

	t.Run("Category Filter", func(t *testing.T) {
		status, posts := ts.getArray(t, "/api/blog/posts?category=tech")

		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, posts, 1)
		assert.Equal(t, "Go Post", posts[0]["title"])
		assert.Equal(t, "author", posts[0]["author_name"])
	})

	t.Run("Author Filter", func(t *testing.T) {
		status, posts := ts.getArray(t, "/api/blog/posts?author="+other)

		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, posts, 1)
		assert.Equal(t, "Food Post", posts[0]["title"])
	})

	t.Run("No Match", func(t *testing.T) {
		status, posts := ts.getArray(t, "/api/blog/posts?category=travel")

		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, posts, 0)
	})
}

func TestProfilesBulkHandler(t *testing.T) {
	app, db, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	alice := createTestProfile(t, db, "alice", "alice@example.com", "user")
	bob := createTestProfile(t, db, "bob", "bob@example.com", "user")

	t.Run("Duplicates Collapsed, Unknown Ignored", func(t *testing.T) {
		status, _, body := ts.post(t, "/api/profiles-bulk", map[string]any{
			"ids": []string{alice, alice, bob, uuid.New().String()},
		})

		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, body["profiles"].([]any), 2)
	})

	t.Run("Empty Ids", func(t *testing.T) {
		status, _, _ := ts.post(t, "/api/profiles-bulk", map[string]any{"ids": []string{}})

		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestVerifyCaptchaHandler(t *testing.T) {
	app, _, _ := newTestApplication(t)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}

		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("response") == "good-token" {
			json.NewEncoder(w).Encode(map[string]any{"success": true})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error-codes": []string{"invalid-input-response"}})
	}))
	t.Cleanup(provider.Close)

	app.captchaService = captchaservice.NewCaptchaService(provider.URL, "test-secret", provider.Client())
	ts := newTestServer(t, app.routes())

	t.Run("Valid Token", func(t *testing.T) {
		status, _, body := ts.post(t, "/api/verify-captcha", map[string]any{"token": "good-token"})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["ok"])
		assert.Nil(t, body["codes"])
	})

	t.Run("Rejected Token", func(t *testing.T) {
		status, _, body := ts.post(t, "/api/verify-captcha", map[string]any{"token": "bad-token"})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["ok"])
		assert.Equal(t, []any{"invalid-input-response"}, body["codes"])
	})

	t.Run("Missing Token", func(t *testing.T) {
		status, _, _ := ts.post(t, "/api/verify-captcha", map[string]any{})

		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Missing Secret", func(t *testing.T) {
		app.captchaService = captchaservice.NewCaptchaService(provider.URL, "", provider.Client())
		t.Cleanup(func() {
			app.captchaService = captchaservice.NewCaptchaService(provider.URL, "test-secret", provider.Client())
		})

		status, _, _ := ts.post(t, "/api/verify-captcha", map[string]any{"token": "good-token"})

		assert.Equal(t, http.StatusInternalServerError, status)
	})
}

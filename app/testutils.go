package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/harutoki/blogdeck/internal/activityservice"
	"github.com/harutoki/blogdeck/internal/adminservice"
	"github.com/harutoki/blogdeck/internal/blogservice"
	"github.com/harutoki/blogdeck/internal/captchaservice"
	"github.com/harutoki/blogdeck/internal/common"
	"github.com/harutoki/blogdeck/internal/profileservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

// newTestApplication wires the handlers against a containerized database and a
// recording message producer.
func newTestApplication(t *testing.T) (*application, *sql.DB, *common.MockMessageProducer) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	producer := &common.MockMessageProducer{}

	cfg := &Config{
		Port:          ":0",
		Environment:   "test",
		Version:       "test",
		CaptchaSecret: "test-secret",
	}

	publicDB := &common.PublicDB{DB: db}
	adminDB := &common.AdminDB{DB: db}
	cache := common.NewCache(time.Minute, 5*time.Minute)

	app := &application{
		config:          cfg,
		logger:          logger,
		blogService:     blogservice.NewBlogService(publicDB, cache, producer, logger),
		adminService:    adminservice.NewAdminService(adminDB),
		profileService:  profileservice.NewProfileService(publicDB),
		captchaService:  captchaservice.NewCaptchaService("", cfg.CaptchaSecret, nil),
		activityService: activityservice.NewActivityService(nil, logger),
	}

	return app, db, producer
}

func createTestProfile(t *testing.T, db *sql.DB, username, email, role string) string {
	var id string
	err := db.QueryRow("INSERT INTO profiles (username, full_name, email, role) VALUES ($1, $2, $3, $4) RETURNING id", username, username, email, role).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func createTestPost(t *testing.T, db *sql.DB, authorID, title, excerpt, content string) string {
	var id string
	err := db.QueryRow("INSERT INTO blog_posts (title, excerpt, content, author_id) VALUES ($1, $2, $3, $4) RETURNING id", title, excerpt, content, authorID).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func (ts *testServer) post(t *testing.T, path string, data any) (int, http.Header, envelope) {
	jsonPayload, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}

	body := bytes.NewReader(jsonPayload)
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string) (int, http.Header, envelope) {
	res, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

// getArray is for endpoints that return a bare JSON array.
func (ts *testServer) getArray(t *testing.T, path string) (int, []map[string]any) {
	res, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var items []map[string]any
	err = json.Unmarshal(responseBody, &items)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, items
}

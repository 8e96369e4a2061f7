package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// admin panel
	router.HandlerFunc(http.MethodGet, "/api/admin/list-users", app.adminListUsersHandler)
	router.HandlerFunc(http.MethodPost, "/api/admin/list-users", app.adminListUsersHandler)

	// blog engagement
	router.HandlerFunc(http.MethodPost, "/api/blog/like", app.likePostHandler)
	router.HandlerFunc(http.MethodPost, "/api/blog/read", app.readPostHandler)

	// blog posts
	router.HandlerFunc(http.MethodGet, "/api/blog/posts", app.listPostsHandler)
	router.HandlerFunc(http.MethodPost, "/api/blog/posts", app.createPostHandler)

	// profiles
	router.HandlerFunc(http.MethodPost, "/api/profiles-bulk", app.profilesBulkHandler)

	// captcha
	router.HandlerFunc(http.MethodPost, "/api/verify-captcha", app.verifyCaptchaHandler)

	// social share page
	router.HandlerFunc(http.MethodGet, "/blog/share/:id", app.sharePostHandler)

	return app.recoverPanic(app.rateLimit(app.logRequest(router)))
}

package main

import (
	"errors"
	"net/http"

	"github.com/harutoki/blogdeck/internal/adminservice"
	"github.com/harutoki/blogdeck/internal/blogservice"
	"github.com/harutoki/blogdeck/internal/common"
)

// roleSuperAdmin is the only role allowed to create posts. The role is taken
// from the request body as-is; see the auth note in DESIGN.md.
const roleSuperAdmin = "super_admin"

type adminListUsersRequest struct {
	Page     *int    `json:"page"`
	PageSize *int    `json:"pageSize"`
	Search   *string `json:"search"`
	Role     *string `json:"role"`
}

func (app *application) adminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	req := adminservice.ListUsersRequest{
		Page:     app.readIntParam(r, "page", 1),
		PageSize: app.readIntParam(r, "pageSize", 20),
		Search:   app.readStringParam(r, "search"),
		Role:     app.readStringParam(r, "role"),
	}

	// a POST body overrides the query string; an absent body is fine. The
	// ContentLength header cannot be trusted here, a chunked body reports -1.
	if r.Method == http.MethodPost {
		var input adminListUsersRequest
		err := app.parseJSON(w, r, &input)
		if err != nil && !errors.Is(err, errEmptyBody) {
			app.badRequestErrorResponse(w, r, err)
			return
		}

		if err == nil {
			if input.Page != nil {
				req.Page = *input.Page
			}
			if input.PageSize != nil {
				req.PageSize = *input.PageSize
			}
			if input.Search != nil {
				req.Search = *input.Search
			}
			if input.Role != nil {
				req.Role = *input.Role
			}
		}
	}

	profiles, count, err := app.adminService.ListUsers(r.Context(), req)
	if err != nil {
		// the admin panel shows the underlying error text
		app.logError(r, err)
		writeErr := app.writeJSON(w, http.StatusInternalServerError, envelope{"ok": false, "error": err.Error()}, nil)
		if writeErr != nil {
			app.logError(r, writeErr)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"ok": true, "data": profiles, "count": count}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type likePostRequest struct {
	PostID string `json:"post_id"`
	UserID string `json:"user_id"`
}

func (app *application) likePostHandler(w http.ResponseWriter, r *http.Request) {
	var input likePostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	liked, likes, err := app.blogService.LikePost(r.Context(), input.PostID, input.UserID)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			app.badRequestErrorResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"liked": liked, "likes": likes}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type readPostRequest struct {
	PostID string  `json:"post_id"`
	UserID *string `json:"user_id"`
}

func (app *application) readPostHandler(w http.ResponseWriter, r *http.Request) {
	var input readPostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	inserted, reads, err := app.blogService.RecordRead(r.Context(), input.PostID, input.UserID)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			app.badRequestErrorResponse(w, r, err)
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	env := envelope{"inserted": inserted}
	if reads != nil {
		env["reads"] = *reads
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	category := app.readStringParam(r, "category")
	author := app.readStringParam(r, "author")

	posts, err := app.blogService.GetPosts(r.Context(), category, author)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			app.badRequestErrorResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if posts == nil {
		posts = []blogservice.Post{}
	}

	err = app.writeJSON(w, http.StatusOK, posts, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type createPostRequest struct {
	Title     string   `json:"title"`
	Excerpt   string   `json:"excerpt"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Thumbnail string   `json:"thumbnail"`
	AuthorID  string   `json:"author_id"`
	Role      string   `json:"role"`
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input createPostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// the role gate comes before anything else
	if input.Role != roleSuperAdmin {
		app.forbiddenErrorResponse(w, r)
		return
	}

	req := &blogservice.CreatePostRequest{
		Title:     input.Title,
		Excerpt:   input.Excerpt,
		Content:   input.Content,
		Category:  input.Category,
		Tags:      input.Tags,
		Thumbnail: input.Thumbnail,
		AuthorID:  input.AuthorID,
	}

	post, err := app.blogService.CreatePost(r.Context(), req)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, blogservice.ErrAuthorForeignKey):
			app.failedValidationErrorResponse(w, r, map[string]string{"author_id": "does not exist"})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, post, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type profilesBulkRequest struct {
	IDs []string `json:"ids"`
}

func (app *application) profilesBulkHandler(w http.ResponseWriter, r *http.Request) {
	var input profilesBulkRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	if len(input.IDs) == 0 {
		app.badRequestErrorResponse(w, r, errors.New("ids must be provided"))
		return
	}

	profiles, err := app.profileService.GetProfilesBulk(r.Context(), input.IDs)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"profiles": profiles}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type verifyCaptchaRequest struct {
	Token string `json:"token"`
}

func (app *application) verifyCaptchaHandler(w http.ResponseWriter, r *http.Request) {
	var input verifyCaptchaRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	if input.Token == "" {
		app.badRequestErrorResponse(w, r, errors.New("token must be provided"))
		return
	}

	result, err := app.captchaService.Verify(r.Context(), input.Token)
	if err != nil {
		// a missing secret is a server misconfiguration, same 500 as a
		// provider failure
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, result, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

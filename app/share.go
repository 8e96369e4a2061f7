package main

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/harutoki/blogdeck/internal/blogservice"
	"github.com/harutoki/blogdeck/internal/common"
)

//go:embed templates/*
var templateFS embed.FS

var shareTemplate = template.Must(template.ParseFS(templateFS, "templates/share.html"))

const (
	shareDescriptionLimit    = 180
	shareDescriptionFallback = "Read this post on the blog."
)

type sharePage struct {
	Title       string
	Description string
	Image       string
	Canonical   string
}

// sharePostHandler serves the social share page: Open Graph metadata for
// crawlers, an immediate client-side redirect for everyone else.
func (app *application) sharePostHandler(w http.ResponseWriter, r *http.Request) {
	id := app.readPathParam(r, "id")

	post, err := app.blogService.GetPostByID(r.Context(), id)
	if err != nil {
		// a bad id, a missing row, and a fetch failure all end the same way
		if !errors.Is(err, blogservice.ErrRecordNotFound) && !errors.As(err, &common.ValidationError{}) {
			app.logError(r, err)
		}
		http.NotFound(w, r)
		return
	}

	origin := requestOrigin(r)

	page := sharePage{
		Title:       post.Title,
		Description: post.Describe(shareDescriptionLimit, shareDescriptionFallback),
		Image:       absoluteURL(post.Thumbnail, origin),
		Canonical:   origin + "/blog?post=" + url.QueryEscape(post.ID),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := shareTemplate.Execute(w, page); err != nil {
		app.logError(r, err)
	}
}

// requestOrigin infers the externally visible origin, trusting the forwarding
// headers a fronting proxy sets.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}

	host := r.Host
	if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
		host = forwarded
	}

	return scheme + "://" + host
}

func absoluteURL(raw, origin string) string {
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}

	return origin + "/" + strings.TrimPrefix(raw, "/")
}

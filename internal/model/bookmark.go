package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// timestampLayout matches the ISO8601 form written by browsers (UTC, milliseconds).
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Bookmark represents a saved URL with metadata.
type Bookmark struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Commentary  string   `json:"commentary"` // personal note, distinct from the site description
	Tags        []string `json:"tags"`
	Favorite    bool     `json:"favorite"`
	Favicon     string   `json:"favicon"`
	CreatedAt   string   `json:"createdAt"`
}

// HasTag reports whether the bookmark carries tag.
func (b Bookmark) HasTag(tag string) bool {
	return contains(b.Tags, tag)
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	Name        string
	URL         string
	Description string
	Commentary  string
	Tags        []string
	Favorite    bool
}

// NewBookmark validates params and creates a Bookmark with generated UUID,
// derived favicon and creation timestamp.
func NewBookmark(params NewBookmarkParams) (Bookmark, error) {
	name := strings.TrimSpace(params.Name)
	rawURL := strings.TrimSpace(params.URL)
	if err := validate(name, rawURL); err != nil {
		return Bookmark{}, err
	}

	return Bookmark{
		ID:          GenerateUUID(),
		Name:        name,
		URL:         rawURL,
		Description: params.Description,
		Commentary:  params.Commentary,
		Tags:        NormalizeTags(params.Tags),
		Favorite:    params.Favorite,
		Favicon:     FaviconURL(rawURL),
		CreatedAt:   Timestamp(time.Now()),
	}, nil
}

// BookmarkPatch is a partial update. Nil fields are left unchanged.
type BookmarkPatch struct {
	Name        *string
	URL         *string
	Description *string
	Commentary  *string
	Tags        *[]string
	Favorite    *bool
	Favicon     *string
}

// apply returns a copy of b with the patch merged in.
func (p BookmarkPatch) apply(b Bookmark) (Bookmark, error) {
	if p.Name != nil {
		b.Name = strings.TrimSpace(*p.Name)
	}
	urlChanged := false
	if p.URL != nil {
		next := strings.TrimSpace(*p.URL)
		urlChanged = next != b.URL
		b.URL = next
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Commentary != nil {
		b.Commentary = *p.Commentary
	}
	if p.Tags != nil {
		b.Tags = NormalizeTags(*p.Tags)
	}
	if p.Favorite != nil {
		b.Favorite = *p.Favorite
	}

	if err := validate(b.Name, b.URL); err != nil {
		return Bookmark{}, err
	}

	switch {
	case p.Favicon != nil:
		b.Favicon = *p.Favicon
	case urlChanged:
		b.Favicon = FaviconURL(b.URL)
	}
	return b, nil
}

// IsAbsoluteURL reports whether raw parses as a URL with scheme and host.
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Timestamp formats t the way CreatedAt values are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func validate(name, rawURL string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if rawURL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	if !IsAbsoluteURL(rawURL) {
		return fmt.Errorf("%w: %q is not an absolute url", ErrInvalidInput, rawURL)
	}
	return nil
}

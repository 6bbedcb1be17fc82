package model

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid bookmark input")
	ErrNotFound     = errors.New("bookmark not found")
)

const faviconService = "https://www.google.com/s2/favicons?domain=%s&sz=32"

// GenerateUUID creates a new UUID string.
func GenerateUUID() string {
	return uuid.New().String()
}

// FaviconURL derives the favicon service URL for rawURL's hostname.
// Returns an empty string when rawURL has no hostname.
func FaviconURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return fmt.Sprintf(faviconService, u.Hostname())
}

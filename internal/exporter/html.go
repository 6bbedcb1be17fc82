package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/bmdir/internal/model"
)

// DefaultExportDir returns ~/Downloads.
func DefaultExportDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Downloads"), nil
}

// ExportHTML exports bookmarks to Netscape bookmark HTML format.
// Tags go into the TAGS attribute, descriptions into a DD line.
func ExportHTML(bookmarks []model.Bookmark) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, bookmark := range bookmarks {
		writeBookmark(&b, bookmark)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

func writeBookmark(b *strings.Builder, bookmark model.Bookmark) {
	const prefix = "    "

	attrs := fmt.Sprintf("HREF=\"%s\"", html.EscapeString(bookmark.URL))
	if created, err := time.Parse(time.RFC3339, bookmark.CreatedAt); err == nil {
		attrs += fmt.Sprintf(" ADD_DATE=\"%d\"", created.Unix())
	}
	if len(bookmark.Tags) > 0 {
		attrs += fmt.Sprintf(" TAGS=\"%s\"", html.EscapeString(strings.Join(bookmark.Tags, ",")))
	}
	if bookmark.Favicon != "" {
		attrs += fmt.Sprintf(" ICON_URI=\"%s\"", html.EscapeString(bookmark.Favicon))
	}

	fmt.Fprintf(b, "%s<DT><A %s>%s</A>\n", prefix, attrs, html.EscapeString(bookmark.Name))
	if bookmark.Description != "" {
		fmt.Fprintf(b, "%s<DD>%s\n", prefix, html.EscapeString(bookmark.Description))
	}
}

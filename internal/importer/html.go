package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nikbrunner/bmdir/internal/model"
	"golang.org/x/net/html"
)

// ParseHTML parses a Netscape bookmark file.
//
// The directory is flat, so each enclosing folder name becomes a tag next
// to the ones listed in the TAGS attribute. A DD line after a bookmark is
// taken as its description.
func ParseHTML(r io.Reader) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var candidates []candidate

	// Track current folder stack for tags
	var folderStack []string
	pendingFolder := "" // folder waiting to be pushed on next DL
	last := -1          // index of the bookmark a DD would describe

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				// Folder definition - pushed when we see the next DL
				pendingFolder = getTextContent(n)
				last = -1
				return

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					// Skip bookmarks without URL
					return
				}

				name := getTextContent(n)
				if name == "" {
					name = href // fallback to URL as name
				}

				tags := append([]string{}, folderStack...)
				if raw := getAttr(n, "tags"); raw != "" {
					tags = append(tags, strings.Split(raw, ",")...)
				}

				candidates = append(candidates, candidate{
					name:      name,
					url:       href,
					tags:      tags,
					favicon:   iconURI(n),
					createdAt: addDate(n),
				})
				last = len(candidates) - 1
				return

			case "dd":
				if last >= 0 {
					candidates[last].description = ownText(n)
					last = -1
				}

			case "dl":
				pushedFolder := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushedFolder = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushedFolder {
					folderStack = folderStack[:len(folderStack)-1]
				}
				last = -1
				return
			}
		}

		// Recurse into children
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return collect(candidates, Metadata{OriginalCount: len(candidates)})
}

// addDate converts the ADD_DATE unix timestamp, if any.
func addDate(n *html.Node) string {
	raw := getAttr(n, "add_date")
	if raw == "" {
		return ""
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return ""
	}
	return model.Timestamp(time.Unix(ts, 0))
}

// iconURI returns ICON_URI when it is a remote URL. Inline data icons are
// ignored; the favicon is derived from the hostname instead.
func iconURI(n *html.Node) string {
	icon := getAttr(n, "icon_uri")
	if strings.HasPrefix(icon, "http://") || strings.HasPrefix(icon, "https://") {
		return icon
	}
	return ""
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// ownText returns only the direct text children, so a DL nested in a DD
// does not leak into the description.
func ownText(n *html.Node) string {
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			text.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}

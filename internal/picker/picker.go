// Package picker is a small Bubble Tea list for choosing one search result.
package picker

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/bmdir/internal/model"
	"github.com/nikbrunner/bmdir/internal/search"
	"github.com/nikbrunner/bmdir/internal/view"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	matchStyle = lipgloss.NewStyle().
			Underline(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// Action is what the user chose to do with the selection.
type Action int

const (
	ActionNone Action = iota
	ActionOpen
	ActionCopy
)

// Picker is a simple TUI for selecting from search results.
type Picker struct {
	results []search.SearchResult
	query   string
	keys    KeyMap
	cursor  int
	offset  int
	action  Action
	err     error
	width   int
	height  int
}

// New creates a new Picker with the given search results.
func New(results []search.SearchResult, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		keys:    DefaultKeyMap(),
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.scroll()
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Quit):
			p.action = ActionNone
			return p, tea.Quit

		case key.Matches(msg, p.keys.Open):
			if len(p.results) == 0 {
				return p, nil
			}
			p.action = ActionOpen
			return p, tea.Quit

		case key.Matches(msg, p.keys.YankURL):
			if len(p.results) == 0 {
				return p, nil
			}
			if err := copyToClipboard(p.results[p.cursor].Bookmark.URL); err != nil {
				p.err = fmt.Errorf("copy to clipboard: %w", err)
				return p, nil
			}
			p.action = ActionCopy
			return p, tea.Quit

		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}

		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			if len(p.results) > 0 {
				p.cursor = len(p.results) - 1
			}
		}
		p.scroll()
	}

	return p, nil
}

// visibleRows is how many results fit between header and footer.
func (p Picker) visibleRows() int {
	rows := (p.height - 5) / 2
	if rows < 1 {
		return 1
	}
	return rows
}

// scroll keeps the cursor inside the visible window.
func (p *Picker) scroll() {
	rows := p.visibleRows()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+rows {
		p.offset = p.cursor - rows + 1
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	end := min(p.offset+p.visibleRows(), len(p.results))
	for i := p.offset; i < end; i++ {
		result := p.results[i]
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		name := highlight(result.Bookmark.Name, result.MatchedIndexes, style)
		star := ""
		if result.Bookmark.Favorite {
			star = " ★"
		}

		fmt.Fprintf(&b, "%s%s%s%s\n", cursor, name, star, renderTags(result.Bookmark.Tags))
		fmt.Fprintf(&b, "   %s\n", urlStyle.Render(result.Bookmark.URL))
	}

	b.WriteString("\n")
	if p.err != nil {
		b.WriteString(errorStyle.Render(p.err.Error()))
		b.WriteString("\n")
	}

	var help []string
	for _, binding := range p.keys.help() {
		h := binding.Help()
		help = append(help, h.Key+": "+h.Desc)
	}
	b.WriteString(helpStyle.Render(strings.Join(help, "  ")))

	return b.String()
}

// highlight underlines the fuzzy-matched characters of name.
func highlight(name string, matched []int, style lipgloss.Style) string {
	if len(matched) == 0 {
		return style.Render(name)
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var b strings.Builder
	for i, r := range name {
		if hit[i] {
			b.WriteString(style.Inherit(matchStyle).Render(string(r)))
		} else {
			b.WriteString(style.Render(string(r)))
		}
	}
	return b.String()
}

func renderTags(tags []string) string {
	var b strings.Builder
	for _, tag := range tags {
		b.WriteString(" ")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(view.TagColor(tag))).Render("#" + tag))
	}
	return b.String()
}

// SelectedBookmark returns the chosen bookmark, or nil if cancelled.
func (p Picker) SelectedBookmark() *model.Bookmark {
	if p.action == ActionNone || p.cursor >= len(p.results) {
		return nil
	}
	return p.results[p.cursor].Bookmark
}

// Action reports what the user did on exit.
func (p Picker) Action() Action {
	return p.action
}

// Cancelled returns true if the user left without choosing.
func (p Picker) Cancelled() bool {
	return p.action == ActionNone
}

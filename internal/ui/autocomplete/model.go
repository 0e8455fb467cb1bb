// Package autocomplete implements a debounced search box that queries a
// remote endpoint and lets the user pick one of the returned records.
package autocomplete

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fetchwidgets/internal/debounce"
	"fetchwidgets/internal/domain"
	"fetchwidgets/internal/fetch"
	"fetchwidgets/internal/logging"
	"fetchwidgets/internal/ui/views"
)

// DefaultDebounce is the quiet period before a query is sent
const DefaultDebounce = 300 * time.Millisecond

// QueryPlaceholder marks where the query goes in a URL template. URLs
// without it get the query appended.
const QueryPlaceholder = "{query}"

// NoResultsText is shown when a search returns nothing
const NoResultsText = "No Results Found"

// Options configures the search box
type Options struct {
	URL           string
	ResultKey     string
	DisplayFields []string
	Placeholder   string
	ItemsLimit    int
	Debounce      time.Duration
	OnSelect      func(domain.SearchResult)
	OnFetchError  func(url string, err error)
}

var instances atomic.Int64

// debounceFiredMsg is produced when input has been quiet long enough
type debounceFiredMsg struct {
	instance int64
	query    string
}

// resultsMsg carries the outcome of one search request
type resultsMsg struct {
	instance int64
	query    string
	url      string
	results  []domain.SearchResult
	err      error
}

// Model is the search box state. Create one with New; the zero value is
// not usable.
type Model struct {
	id        int64
	opts      Options
	getter    fetch.Getter
	debouncer *debounce.Debouncer
	styles    *views.Styles
	keys      KeyMap

	input   textinput.Model
	spinner spinner.Model

	results   []domain.SearchResult // nil means nothing is displayed
	limit     int
	searching bool
	selected  string
	cursor    int
}

// New creates a mounted search box
func New(opts Options, getter fetch.Getter, styles *views.Styles) *Model {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.ItemsLimit <= 0 {
		opts.ItemsLimit = 5
	}
	if opts.Placeholder == "" {
		opts.Placeholder = "Type here..."
	}
	if styles == nil {
		styles = views.NewStyles()
	}

	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	ti.Prompt = ""
	ti.Width = 40
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Loading

	return &Model{
		id:        instances.Add(1),
		opts:      opts,
		getter:    getter,
		debouncer: debounce.New(opts.Debounce),
		styles:    styles,
		keys:      DefaultKeyMap(),
		input:     ti,
		spinner:   sp,
		limit:     opts.ItemsLimit,
	}
}

// Init starts the cursor blinking
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Unmount cancels any pending debounce timer. Responses still in flight
// are dropped when they arrive.
func (m *Model) Unmount() {
	m.debouncer.Cancel()
}

// Keys returns the bindings for help rendering
func (m *Model) Keys() KeyMap {
	return m.keys
}

// Query returns the current input text
func (m *Model) Query() string {
	return m.input.Value()
}

// Placeholder returns the input placeholder
func (m *Model) Placeholder() string {
	return m.input.Placeholder
}

// Searching reports whether a request is outstanding
func (m *Model) Searching() bool {
	return m.searching
}

// Selected returns the display text of the last selection, cleared when
// the text changes
func (m *Model) Selected() string {
	return m.selected
}

// ShowsNoResults reports whether the no-results indicator is displayed
func (m *Model) ShowsNoResults() bool {
	return m.results != nil && len(m.results) == 0 && !m.searching
}

// Visible returns the displayed results, at most ItemsLimit, in API order
func (m *Model) Visible() []domain.SearchResult {
	if len(m.results) <= m.limit {
		return m.results
	}
	return m.results[:m.limit]
}

// SetQuery replaces the input text as if the user had typed it
func (m *Model) SetQuery(value string) tea.Cmd {
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.handleInputChange(value)
}

func (m *Model) handleInputChange(value string) tea.Cmd {
	m.selected = ""
	if value == "" {
		m.results = nil
		m.cursor = 0
		m.debouncer.Cancel()
		return nil
	}

	id := m.id
	return m.debouncer.Schedule(func() tea.Msg {
		return debounceFiredMsg{instance: id, query: value}
	})
}

// Select picks the visible result at index i: the input shows its display
// text, the list closes, and OnSelect receives the record.
func (m *Model) Select(i int) {
	visible := m.Visible()
	if i < 0 || i >= len(visible) {
		return
	}
	item := visible[i]

	display := item.Display(m.opts.DisplayFields)
	m.selected = display
	m.input.SetValue(display)
	m.input.CursorEnd()
	m.input.Blur()
	m.results = nil
	m.cursor = 0
	m.debouncer.Cancel()

	if m.opts.OnSelect != nil {
		m.opts.OnSelect(item)
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceFiredMsg:
		if msg.instance != m.id {
			return nil
		}
		var cmds []tea.Cmd
		if !m.searching {
			cmds = append(cmds, m.spinner.Tick)
		}
		m.searching = true
		cmds = append(cmds, m.fetch(msg.query))
		return tea.Batch(cmds...)

	case resultsMsg:
		if msg.instance != m.id {
			return nil
		}
		m.applyResults(msg)
		return nil

	case spinner.TickMsg:
		if !m.searching {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	visible := m.Visible()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
		return nil
	case key.Matches(msg, m.keys.Select):
		if len(visible) > 0 {
			m.Select(m.cursor)
		}
		return nil
	case key.Matches(msg, m.keys.Clear):
		return m.SetQuery("")
	}

	var cmds []tea.Cmd
	if !m.input.Focused() {
		cmds = append(cmds, m.input.Focus())
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if after := m.input.Value(); after != before {
		cmds = append(cmds, m.handleInputChange(after))
	}
	return tea.Batch(cmds...)
}

func (m *Model) applyResults(msg resultsMsg) {
	m.searching = false
	m.limit = m.opts.ItemsLimit
	m.cursor = 0

	if msg.err != nil {
		logging.For("autocomplete").
			WithField("url", msg.url).
			WithError(msg.err).
			Error("error fetching data")
		if m.opts.OnFetchError != nil {
			m.opts.OnFetchError(msg.url, msg.err)
		}
		m.results = []domain.SearchResult{}
		return
	}
	m.results = msg.results
}

func (m *Model) fetch(query string) tea.Cmd {
	target := BuildURL(m.opts.URL, query)
	getter := m.getter
	resultKey := m.opts.ResultKey
	id := m.id

	return func() tea.Msg {
		js, err := getter.GetJSON(context.Background(), target)
		if err != nil {
			return resultsMsg{instance: id, query: query, url: target, err: err}
		}

		records := fetch.Records(js, resultKey)
		results := make([]domain.SearchResult, len(records))
		for i, r := range records {
			results[i] = domain.SearchResult(r)
		}
		return resultsMsg{instance: id, query: query, url: target, results: results}
	}
}

// BuildURL fills the query into a URL template. The query is escaped.
func BuildURL(template, query string) string {
	escaped := url.QueryEscape(query)
	if strings.Contains(template, QueryPlaceholder) {
		return strings.ReplaceAll(template, QueryPlaceholder, escaped)
	}
	return template + escaped
}

// View renders the search box
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Input.Render(m.input.View()))
	b.WriteString("\n")

	if m.searching {
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), m.styles.Loading.Render("Searching...")))
	}

	if m.ShowsNoResults() {
		alert := fmt.Sprintf("%s %s", m.styles.AlertTitle.Render("Oopsie!"), NoResultsText)
		b.WriteString(m.styles.Alert.Render(alert))
		b.WriteString("\n")
	}

	if visible := m.Visible(); len(visible) > 0 {
		rows := make([]string, len(visible))
		for i, item := range visible {
			style := m.styles.Result
			if i == m.cursor {
				style = m.styles.ResultFocus
			}
			rows[i] = style.Render(item.Display(m.opts.DisplayFields))
		}
		b.WriteString(m.styles.ResultList.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
		b.WriteString("\n")
	}

	return b.String()
}

// Package pagination implements a paged list of posts fetched from a
// remote endpoint, one page at a time.
package pagination

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"fetchwidgets/internal/domain"
	"fetchwidgets/internal/fetch"
	"fetchwidgets/internal/logging"
	"fetchwidgets/internal/ui/views"
)

// LoadingText is shown while a page is being fetched
const LoadingText = "Loading..."

const (
	cardWidth     = 32
	bodyLines     = 3
	cardMinHeight = bodyLines + 2
)

// Options configures the list
type Options struct {
	URL          string
	ItemsKey     string
	TotalKey     string
	PageSize     int
	OnPageLoaded func(domain.PageLoadedEvent)
	OnFetchError func(url string, err error)
	// OnOpen is asked to display a post in full
	OnOpen func(domain.ListItem) tea.Cmd
}

var instances atomic.Int64

// pageMsg carries the outcome of one page request
type pageMsg struct {
	instance int64
	page     int
	url      string
	items    []domain.ListItem
	total    int
	err      error
}

// Model is the list state. Create one with New and call Mount (or Init)
// before use.
type Model struct {
	id     int64
	opts   Options
	getter fetch.Getter
	styles *views.Styles
	keys   KeyMap

	state     domain.PageState
	items     []domain.ListItem
	paginator paginator.Model
	spinner   spinner.Model
	cursor    int
	width     int
}

// New creates a list
func New(opts Options, getter fetch.Getter, styles *views.Styles) *Model {
	if opts.PageSize <= 0 {
		opts.PageSize = domain.PageSize
	}
	if opts.ItemsKey == "" {
		opts.ItemsKey = "posts"
	}
	if opts.TotalKey == "" {
		opts.TotalKey = "total"
	}
	if styles == nil {
		styles = views.NewStyles()
	}

	p := paginator.New()
	p.PerPage = opts.PageSize
	p.TotalPages = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Loading

	return &Model{
		id:        instances.Add(1),
		opts:      opts,
		getter:    getter,
		styles:    styles,
		keys:      DefaultKeyMap(),
		state:     domain.NewPageState(),
		paginator: p,
		spinner:   sp,
		width:     80,
	}
}

// Init mounts the list and starts the loading spinner
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.Mount())
}

// Mount resets the page state and fetches the first page
func (m *Model) Mount() tea.Cmd {
	m.state = domain.NewPageState()
	m.items = nil
	m.cursor = 0
	m.paginator.Page = 0
	m.paginator.TotalPages = 0
	return m.fetch(0)
}

// Keys returns the bindings for help rendering
func (m *Model) Keys() KeyMap {
	return m.keys
}

// State returns the current page state
func (m *Model) State() domain.PageState {
	return m.state
}

// Items returns the items currently displayed
func (m *Model) Items() []domain.ListItem {
	return m.items
}

// PageCount returns the number of page controls, ceil(total/pageSize)
func (m *Model) PageCount() int {
	return m.paginator.TotalPages
}

// Focused returns the item under the cursor
func (m *Model) Focused() (domain.ListItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return domain.ListItem{}, false
	}
	return m.items[m.cursor], true
}

// SetPage selects page i, which triggers a fetch. Selecting the current
// page or one outside the controls does nothing.
func (m *Model) SetPage(i int) tea.Cmd {
	if i == m.state.Page || i < 0 || i >= m.paginator.TotalPages {
		return nil
	}

	var cmds []tea.Cmd
	if !m.state.Loading {
		cmds = append(cmds, m.spinner.Tick)
	}
	m.state.Page = i
	m.state.Loading = true
	m.paginator.Page = i
	m.cursor = 0
	cmds = append(cmds, m.fetch(i))
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pageMsg:
		if msg.instance != m.id {
			return nil
		}
		m.applyPage(msg)

	case spinner.TickMsg:
		if !m.state.Loading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.PrevPage):
		p := m.paginator
		p.PrevPage()
		return m.SetPage(p.Page)
	case key.Matches(msg, m.keys.NextPage):
		p := m.paginator
		p.NextPage()
		return m.SetPage(p.Page)
	case key.Matches(msg, m.keys.FirstPage):
		return m.SetPage(0)
	case key.Matches(msg, m.keys.LastPage):
		return m.SetPage(m.paginator.TotalPages - 1)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if item, ok := m.Focused(); ok && m.opts.OnOpen != nil {
			return m.opts.OnOpen(item)
		}
	}

	// Digits jump straight to a page control
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return m.SetPage(int(s[0] - '1'))
	}
	return nil
}

func (m *Model) applyPage(msg pageMsg) {
	m.state.Loading = false

	if msg.err != nil {
		logging.For("pagination").
			WithField("url", msg.url).
			WithError(msg.err).
			Error("failed to fetch page")
		if m.opts.OnFetchError != nil {
			m.opts.OnFetchError(msg.url, msg.err)
		}
		return
	}

	m.items = msg.items
	m.state.Total = msg.total
	m.paginator.TotalPages = m.state.TotalPages(m.opts.PageSize)
	if m.cursor >= len(m.items) {
		m.cursor = 0
	}

	if m.opts.OnPageLoaded != nil {
		m.opts.OnPageLoaded(domain.PageLoadedEvent{
			Page:   msg.page,
			Offset: msg.page * m.opts.PageSize,
			Count:  len(msg.items),
			Total:  msg.total,
		})
	}
}

func (m *Model) fetch(page int) tea.Cmd {
	target := PageURL(m.opts.URL, page*m.opts.PageSize, m.opts.PageSize)
	getter := m.getter
	itemsKey, totalKey := m.opts.ItemsKey, m.opts.TotalKey
	id := m.id

	return func() tea.Msg {
		js, err := getter.GetJSON(context.Background(), target)
		if err != nil {
			return pageMsg{instance: id, page: page, url: target, err: err}
		}

		records := fetch.Records(js, itemsKey)
		items := make([]domain.ListItem, len(records))
		for i, r := range records {
			items[i] = toListItem(r)
		}
		return pageMsg{
			instance: id,
			page:     page,
			url:      target,
			items:    items,
			total:    fetch.Int(js, totalKey),
		}
	}
}

// PageURL sets the skip and limit query parameters on base
func PageURL(base string, skip, limit int) string {
	u, err := url.Parse(base)
	if err != nil {
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		return fmt.Sprintf("%s%sskip=%d&limit=%d", base, sep, skip, limit)
	}
	q := u.Query()
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String()
}

func toListItem(r map[string]any) domain.ListItem {
	item := domain.ListItem{
		Title: stringField(r, "title"),
		Body:  stringField(r, "body"),
	}
	if id, err := strconv.Atoi(stringField(r, "id")); err == nil {
		item.ID = id
	}
	return item
}

func stringField(r map[string]any, field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// View renders the list
func (m *Model) View() string {
	if m.state.Loading {
		return fmt.Sprintf("%s %s", m.spinner.View(), m.styles.Loading.Render(LoadingText))
	}

	var b strings.Builder
	if grid := m.renderCards(); grid != "" {
		b.WriteString(grid)
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderControls())
	return b.String()
}

func (m *Model) renderCards() string {
	if len(m.items) == 0 {
		return ""
	}

	outer := cardWidth + m.styles.Card.GetHorizontalBorderSize()
	cols := m.width / outer
	if cols < 1 {
		cols = 1
	}

	var rows []string
	for start := 0; start < len(m.items); start += cols {
		end := start + cols
		if end > len(m.items) {
			end = len(m.items)
		}
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCard(m.items[i], i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderCard(item domain.ListItem, focused bool) string {
	textWidth := cardWidth - m.styles.Card.GetHorizontalPadding()
	title := ansi.Truncate(item.Title, textWidth, "…")
	body := clampLines(item.Body, textWidth, bodyLines)

	style := m.styles.Card
	if focused {
		style = m.styles.CardFocus
	}
	content := m.styles.CardTitle.Render(title) + "\n" + m.styles.CardBody.Render(body)
	return style.Width(cardWidth).Height(cardMinHeight).Render(content)
}

// clampLines wraps s to width and keeps at most n lines, marking a cut
// with an ellipsis
func clampLines(s string, width, n int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(ansi.Wordwrap(s, width, " -"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	lines = lines[:n]
	last := strings.TrimRight(lines[n-1], " ")
	lines[n-1] = ansi.Truncate(last+" …", width, "…")
	return strings.Join(lines, "\n")
}

func (m *Model) renderControls() string {
	total := m.paginator.TotalPages
	if total == 0 {
		return m.styles.Dim.Render("No pages")
	}

	buttons := make([]string, total)
	for i := 0; i < total; i++ {
		style := m.styles.PageButton
		if i == m.state.Page {
			style = m.styles.PageCurrent
		}
		buttons[i] = style.Render(strconv.Itoa(i + 1))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
	summary := m.styles.Dim.Render(fmt.Sprintf("Page %d of %d · %d posts", m.state.Page+1, total, m.state.Total))
	return lipgloss.JoinVertical(lipgloss.Left, ansi.Hardwrap(row, m.width, false), summary)
}

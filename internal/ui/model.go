package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fetchwidgets/internal/config"
	"fetchwidgets/internal/domain"
	"fetchwidgets/internal/eventbus"
	"fetchwidgets/internal/fetch"
	"fetchwidgets/internal/logging"
	"fetchwidgets/internal/ui/autocomplete"
	"fetchwidgets/internal/ui/pagination"
	"fetchwidgets/internal/ui/views"
)

// Route identifies which widget is mounted
type Route int

const (
	RouteSearch Route = iota
	RoutePosts
)

var routeTitles = map[Route]string{
	RouteSearch: "Autocomplete",
	RoutePosts:  "Pagination",
}

// Model is the application shell. Exactly one widget is mounted at a time;
// switching routes discards the old widget's state.
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	getter fetch.Getter
	styles *views.Styles
	keys   KeyMap
	help   help.Model
	pager  *Pager

	route    Route
	search   *autocomplete.Model
	posts    *pagination.Model
	selected string

	width       int
	height      int
	inPagerMode bool // tracks if the pager currently owns the terminal
}

// NewModel creates the shell with the configured start route mounted
func NewModel(bus eventbus.EventBus, cfg *config.Config, getter fetch.Getter) *Model {
	m := &Model{
		bus:    bus,
		config: cfg,
		getter: getter,
		styles: views.NewStyles(),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		pager:  NewPager(),
		route:  RouteSearch,
	}
	if cfg.StartView == config.ViewPosts {
		m.route = RoutePosts
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.SetProgram(p)
}

// Route returns the mounted route
func (m *Model) Route() Route {
	return m.route
}

// SelectedValue returns the display text of the last autocomplete selection
func (m *Model) SelectedValue() string {
	return m.selected
}

// Search returns the mounted search box, or nil on the posts route
func (m *Model) Search() *autocomplete.Model {
	return m.search
}

// Posts returns the mounted list, or nil on the search route
func (m *Model) Posts() *pagination.Model {
	return m.posts
}

// Init mounts the start route
func (m *Model) Init() tea.Cmd {
	return m.mount(m.route)
}

func (m *Model) mount(route Route) tea.Cmd {
	if m.search != nil {
		m.search.Unmount()
		m.search = nil
	}
	m.posts = nil
	m.selected = ""
	m.route = route

	log := logging.For("ui").WithField("route", routeTitles[route])
	log.Info("mounting view")

	switch route {
	case RoutePosts:
		m.posts = pagination.New(m.postsOptions(), m.getter, m.styles)
		if m.width > 0 {
			m.posts.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		}
		return m.posts.Init()
	default:
		m.search = autocomplete.New(m.searchOptions(), m.getter, m.styles)
		return m.search.Init()
	}
}

func (m *Model) searchOptions() autocomplete.Options {
	sc := m.config.Search
	return autocomplete.Options{
		URL:           sc.URL,
		ResultKey:     sc.ResultKey,
		DisplayFields: sc.DisplayFields,
		Placeholder:   sc.Placeholder,
		ItemsLimit:    sc.ItemsLimit,
		Debounce:      sc.Debounce(),
		OnSelect: func(r domain.SearchResult) {
			m.selected = r.Display(sc.DisplayFields)
			m.publish(eventbus.SelectionMadeEvent{Display: m.selected, Record: r})
		},
		OnFetchError: func(url string, err error) {
			m.publish(eventbus.FetchFailedEvent{Widget: "autocomplete", URL: url, Err: err})
		},
	}
}

func (m *Model) postsOptions() pagination.Options {
	pc := m.config.Posts
	return pagination.Options{
		URL:      pc.URL,
		ItemsKey: pc.ItemsKey,
		TotalKey: pc.TotalKey,
		PageSize: pc.PageSize,
		OnPageLoaded: func(e domain.PageLoadedEvent) {
			m.publish(e)
		},
		OnFetchError: func(url string, err error) {
			m.publish(eventbus.FetchFailedEvent{Widget: "pagination", URL: url, Err: err})
		},
		OnOpen: m.showPost,
	}
}

func (m *Model) publish(e eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

// showPost returns a command that shows a post using the ov pager
func (m *Model) showPost(item domain.ListItem) tea.Cmd {
	pager := m.pager
	return func() tea.Msg {
		if pager.program == nil {
			return pagerMsg{postID: item.ID, err: errNoProgram}
		}
		// Send pause message to stop rendering
		pager.program.Send(pauseRenderingMsg{})

		err := pager.ShowPost(item)

		// Send resume message to restart rendering
		pager.program.Send(resumeRenderingMsg{})

		return pagerMsg{postID: item.ID, err: err}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, m.forward(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextView), key.Matches(msg, m.keys.PrevView):
			return m, m.mount(m.otherRoute())
		case key.Matches(msg, m.keys.Help) && !m.typing(msg):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		return m, m.forward(msg)

	case pagerMsg:
		if msg.err != nil {
			logging.For("ui").WithField("post", msg.postID).WithError(msg.err).Warn("pager failed")
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil
	}

	return m, m.forward(msg)
}

// typing reports whether msg is text meant for the search input
func (m *Model) typing(msg tea.KeyMsg) bool {
	return m.route == RouteSearch && msg.Type == tea.KeyRunes
}

func (m *Model) otherRoute() Route {
	if m.route == RouteSearch {
		return RoutePosts
	}
	return RouteSearch
}

func (m *Model) forward(msg tea.Msg) tea.Cmd {
	switch {
	case m.search != nil:
		return m.search.Update(msg)
	case m.posts != nil:
		return m.posts.Update(msg)
	}
	return nil
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.styles.Title.Render(routeTitles[m.route]))
	b.WriteString("\n")

	switch {
	case m.search != nil:
		b.WriteString(m.search.View())
		if m.selected != "" {
			b.WriteString("\n")
			b.WriteString(m.styles.Selected.Render("Selected: " + m.selected))
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Help.Render(m.help.View(helpKeys{shell: m.keys, widget: m.search.Keys()})))
	case m.posts != nil:
		b.WriteString(m.posts.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render(m.help.View(helpKeys{shell: m.keys, widget: m.posts.Keys()})))
	}

	return m.styles.Main.Render(b.String())
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(routeTitles))
	for _, r := range []Route{RouteSearch, RoutePosts} {
		style := m.styles.Tab
		if r == m.route {
			style = m.styles.TabActive
		}
		tabs = append(tabs, style.Render(routeTitles[r]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"readlist/internal/categories"
	"readlist/internal/feedapi"
	"readlist/internal/nav"
	"readlist/internal/pipeline"
	"readlist/internal/readstate"
	"readlist/internal/render"
	"readlist/internal/tui/actions"
	"readlist/internal/tui/platform"
	tuistate "readlist/internal/tui/state"
	tuitheme "readlist/internal/tui/theme"
	"readlist/internal/tui/view"
)

type pane int

const (
	paneSidebar pane = iota
	paneArticles
)

type Model struct {
	service  actions.Service
	store    *readstate.Store
	registry *categories.Registry
	renderer *render.ListRenderer

	articles []feedapi.Article
	filtered []feedapi.Article

	navigator *nav.Navigator

	category   string
	unreadOnly bool
	direction  pipeline.Direction
	active     pane

	sidebarCursor int
	anchor        string

	searching bool
	search    textinput.Model

	spin     spinner.Model
	loading  bool
	status   string
	statusID int
	err      error
	fatal    error

	width  int
	height int

	theme     tuitheme.Theme
	openURLFn func(string) error
	copyURLFn func(string) error
}

func NewModel(service actions.Service, store *readstate.Store, registry *categories.Registry, renderer *render.ListRenderer, seed []feedapi.Article) Model {
	search := textinput.New()
	search.Placeholder = "filter articles"
	search.CharLimit = 120

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		service:   service,
		store:     store,
		registry:  registry,
		renderer:  renderer,
		articles:  append([]feedapi.Article(nil), seed...),
		navigator: nav.New(),
		direction: pipeline.Newest,
		active:    paneSidebar,
		search:    search,
		spin:      spin,
		theme:     tuitheme.Default(),
		openURLFn: platform.OpenURLInBrowser,
		copyURLFn: platform.CopyURLToClipboard,
	}
	m.registerCategories(seed)
	if names := registry.Sorted(); len(names) > 0 {
		m.category = names[0]
	}
	m.loading = service != nil
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.store != nil {
		cmds = append(cmds, actions.LoadReadSetCmd(m.store))
	}
	if m.service != nil {
		cmds = append(cmds, actions.RefreshCmd(m.service, "init"))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.rebuild()
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case actions.ReadSetLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		return m.rebuild()
	case actions.RefreshSuccessMsg:
		m.loading = false
		m.err = nil
		m.fatal = nil
		m.articles = msg.Articles
		m.registerCategories(msg.Articles)
		m.ensureCategory()
		if msg.Source == "manual" {
			m.status = fmt.Sprintf("Refreshed %d articles in %dms", len(msg.Articles), msg.Duration.Milliseconds())
		}
		return m.rebuild()
	case actions.RefreshErrorMsg:
		m.loading = false
		var malformed *feedapi.MalformedResponseError
		if errors.As(msg.Err, &malformed) && len(m.articles) == 0 {
			m.fatal = msg.Err
			return m, nil
		}
		m.err = msg.Err
		return m, nil
	case actions.ToggleReadDoneMsg:
		if msg.Err != nil {
			m.status = ""
			m.err = msg.Err
			return m.rebuild()
		}
		if msg.Result.Skipped {
			return m, nil
		}
		m.err = nil
		if msg.Result.Read {
			m.status = "Marked as read"
		} else {
			m.status = "Marked as unread"
		}
		m.statusID++
		model, cmd := m.rebuild()
		return model, tea.Batch(cmd, actions.ClearStatusCmd(m.statusID, 3*time.Second))
	case actions.MarkAllDoneMsg:
		m.loading = false
		m.err = nil
		m.status = batchStatus(msg.Result)
		if len(msg.Result.Failed) > 0 {
			m.err = msg.Result.Failed[0]
		}
		m.statusID++
		model, cmd := m.rebuild()
		return model, tea.Batch(cmd, actions.ClearStatusCmd(m.statusID, 4*time.Second))
	case actions.RenderStepMsg:
		more := m.renderer.RenderBatch(msg.Gen)
		if msg.Gen != m.renderer.Generation() {
			return m, nil
		}
		if m.renderer.Complete() {
			m.finishRender()
			return m, nil
		}
		if !more {
			return m, nil
		}
		return m, actions.RenderStepCmd(msg.Gen)
	case actions.OpenURLSuccessMsg:
		m.err = nil
		m.status = msg.Status
		m.statusID++
		var markCmd tea.Cmd
		if msg.Opened && m.store != nil && !m.store.IsRead(msg.Link) {
			markCmd = actions.MarkReadCmd(m.store, msg.Link)
		}
		return m, tea.Batch(markCmd, actions.ClearStatusCmd(m.statusID, 3*time.Second))
	case actions.OpenURLErrorMsg:
		m.err = nil
		m.status = msg.Err.Error()
		m.statusID++
		return m, actions.ClearStatusCmd(m.statusID, 4*time.Second)
	case actions.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The filter input owns the keyboard while open so list shortcuts do
	// not fire mid-typing.
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.search.SetValue("")
			m.search.Blur()
			return m.rebuild()
		case "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		model, rebuildCmd := m.rebuild()
		return model, tea.Batch(cmd, rebuildCmd)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.active == paneSidebar {
			m.active = paneArticles
		} else {
			m.active = paneSidebar
		}
		return m, nil
	case "/":
		m.searching = true
		m.active = paneArticles
		return m, m.search.Focus()
	case "r":
		if m.service == nil {
			return m, nil
		}
		m.loading = true
		m.status = ""
		m.err = nil
		return m, tea.Batch(m.spin.Tick, actions.RefreshCmd(m.service, "manual"))
	case "u":
		m.unreadOnly = !m.unreadOnly
		if m.unreadOnly {
			m.status = "Showing unread only"
		} else {
			m.status = "Showing all articles"
		}
		return m.rebuild()
	case "s":
		if m.direction == pipeline.Newest {
			m.direction = pipeline.Oldest
			m.status = "Sorted oldest first"
		} else {
			m.direction = pipeline.Newest
			m.status = "Sorted newest first"
		}
		return m.rebuild()
	case "A":
		return m.toggleAllVisible()
	}

	if m.active == paneSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleArticlesKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := m.registry.Sorted()
	switch msg.String() {
	case "down", "j":
		m.sidebarCursor = tuistate.ClampCursor(m.sidebarCursor+1, len(names))
		return m, nil
	case "up", "k":
		m.sidebarCursor = tuistate.ClampCursor(m.sidebarCursor-1, len(names))
		return m, nil
	case "enter":
		if len(names) == 0 {
			return m, nil
		}
		m.sidebarCursor = tuistate.ClampCursor(m.sidebarCursor, len(names))
		m.category = names[m.sidebarCursor]
		m.active = paneArticles
		return m.rebuild()
	case "f":
		if len(names) == 0 {
			return m, nil
		}
		m.sidebarCursor = tuistate.ClampCursor(m.sidebarCursor, len(names))
		name := names[m.sidebarCursor]
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.registry.ToggleFavorite(ctx, name); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		if m.registry.IsFavorite(name) {
			m.status = "Favorited " + name
		} else {
			m.status = "Unfavorited " + name
		}
		m.sidebarCursor = indexOf(m.registry.Sorted(), name)
		return m, nil
	case "[":
		return m.moveCategory(-1)
	case "]":
		return m.moveCategory(1)
	}
	return m, nil
}

func (m Model) moveCategory(delta int) (tea.Model, tea.Cmd) {
	names := m.registry.Sorted()
	if len(names) == 0 {
		return m, nil
	}
	m.sidebarCursor = tuistate.ClampCursor(m.sidebarCursor, len(names))
	name := names[m.sidebarCursor]

	// Extend the persisted order with every known category first so moving
	// a name never jumps it past positions it was not adjacent to.
	order := m.registry.Order()
	for _, known := range names {
		if indexOf(order, known) < 0 {
			order = append(order, known)
		}
	}
	order = tuistate.MoveInOrder(order, name, delta)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.registry.Reorder(ctx, order); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.sidebarCursor = indexOf(m.registry.Sorted(), name)
	return m, nil
}

func (m Model) handleArticlesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "down", "n", "j":
		link, ok := m.navigator.Next()
		if !ok {
			return m, nil
		}
		return m, m.markFocusedReadCmd(link)
	case "up", "k":
		link, ok := m.navigator.Previous()
		if !ok {
			return m, nil
		}
		return m, m.markFocusedReadCmd(link)
	case "m":
		link, ok := m.navigator.Focused()
		if !ok || m.store == nil {
			return m, nil
		}
		return m, actions.ToggleReadCmd(m.store, link)
	case "enter", "o":
		return m.openFocusedURL()
	case "esc":
		m.active = paneSidebar
		return m, nil
	}
	return m, nil
}

// markFocusedReadCmd implements the read-on-focus policy. Already-read
// articles are left alone so focusing them cannot flip them back to unread.
func (m Model) markFocusedReadCmd(link string) tea.Cmd {
	if m.store == nil || m.store.IsRead(link) {
		return nil
	}
	return actions.MarkReadCmd(m.store, link)
}

func (m Model) toggleAllVisible() (tea.Model, tea.Cmd) {
	links := m.navigator.Links()
	if len(links) == 0 || m.store == nil {
		return m, nil
	}
	m.loading = true
	m.status = ""
	m.err = nil
	return m, tea.Batch(m.spin.Tick, actions.MarkAllCmd(m.store, links))
}

func (m Model) openFocusedURL() (tea.Model, tea.Cmd) {
	link, ok := m.navigator.Focused()
	if !ok {
		return m, nil
	}
	validURL, err := platform.ValidateArticleURL(link)
	if err != nil {
		m.err = nil
		m.status = err.Error()
		m.statusID++
		return m, actions.ClearStatusCmd(m.statusID, 4*time.Second)
	}
	return m, actions.OpenURLCmd(link, validURL, m.openURLFn, m.copyURLFn)
}

// rebuild runs the filter pipeline and starts a fresh render generation.
// The first batch lands synchronously; the rest arrive through the event
// loop one batch per message.
func (m Model) rebuild() (tea.Model, tea.Cmd) {
	if link, ok := m.navigator.Focused(); ok {
		m.anchor = link
	}
	// Assign the interface only for a live store; a typed nil pointer would
	// slip past Apply's nil check.
	var reads pipeline.ReadChecker
	if m.store != nil {
		reads = m.store
	}
	m.filtered = pipeline.Apply(m.articles, m.category, m.unreadOnly, m.direction, reads)
	if query := strings.TrimSpace(m.search.Value()); query != "" {
		m.filtered = filterByQuery(m.filtered, query)
	}

	width := m.contentWidth()
	store := m.store
	th := m.theme
	gen := m.renderer.Begin(m.filtered, func(a feedapi.Article) (string, error) {
		read := store != nil && store.IsRead(a.Link)
		return view.RenderArticleLine(view.ArticleLineParams{Article: a, Read: read, Width: width}, th)
	})
	if m.renderer.Complete() {
		m.finishRender()
		return m, nil
	}
	return m, actions.RenderStepCmd(gen)
}

// finishRender publishes the finished rows to the navigator and puts the
// cursor back on the article focused before the rebuild, when it survived
// the filters.
func (m *Model) finishRender() {
	m.navigator.SetVisible(m.renderer.Visible())
	if m.anchor != "" {
		m.navigator.Focus(m.anchor)
	}
}

func (m *Model) registerCategories(articles []feedapi.Article) {
	for _, a := range articles {
		m.registry.Register(a.Category)
	}
}

func (m *Model) ensureCategory() {
	names := m.registry.Sorted()
	if len(names) == 0 {
		m.category = ""
		return
	}
	if indexOf(names, m.category) >= 0 {
		return
	}
	m.category = names[0]
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Reading List"))
	b.WriteString("\n")
	b.WriteString(view.Toolbar(m.searching))
	b.WriteString("\n\n")

	if m.fatal != nil {
		b.WriteString(view.Blankslate("Could not load articles", m.fatal.Error(), m.theme))
		b.WriteString("\n\n")
		b.WriteString(view.Message(false, "", nil, m.theme))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.sidebarView())
	b.WriteString("\n")

	if m.searching {
		b.WriteString("Filter: " + m.search.View())
		b.WriteString("\n")
	}

	if m.loading && len(m.filtered) == 0 {
		b.WriteString(m.spin.View() + " Loading articles...\n")
	} else {
		b.WriteString(m.articlesView())
	}

	b.WriteString("\n")
	b.WriteString(view.Message(m.loading, m.status, m.err, m.theme))
	b.WriteString("\n")
	b.WriteString(view.Footer(m.category, m.unreadOnly, string(m.direction), m.navigator.Len(), len(m.articles), m.theme))
	b.WriteString("\n")
	return b.String()
}

func (m Model) sidebarView() string {
	names := m.registry.Sorted()
	if len(names) == 0 {
		return view.Blankslate("No categories", "Refresh to load the reading list.", m.theme) + "\n"
	}
	var b strings.Builder
	for i, name := range names {
		active := m.active == paneSidebar && i == m.sidebarCursor
		line := view.RenderCategoryLine(name, m.registry.IsFavorite(name), name == m.category, m.unreadCount(name), m.sidebarWidth(), m.theme)
		b.WriteString(m.theme.RenderActiveLine(active, line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) articlesView() string {
	rows := m.renderer.Rows()
	if len(rows) == 0 {
		if !m.renderer.Complete() {
			return m.spin.View() + " Rendering...\n"
		}
		return view.Blankslate("Nothing here", "No articles match the current filters.", m.theme) + "\n"
	}

	top, end := tuistate.CenteredWindow(len(rows), m.navigator.Index(), m.listHeight())
	var b strings.Builder
	for i := top; i < end; i++ {
		focused := m.active == paneArticles && i == m.navigator.Index()
		b.WriteString(m.theme.RenderFocusLine(focused, rows[i].Line))
		b.WriteString("\n")
	}
	if !m.renderer.Complete() {
		b.WriteString(m.spin.View() + fmt.Sprintf(" Rendering %d of %d...\n", len(rows), len(m.filtered)))
	}
	return b.String()
}

func (m Model) unreadCount(category string) int {
	count := 0
	for _, a := range m.articles {
		if a.Category != category {
			continue
		}
		if m.store == nil || !m.store.IsRead(a.Link) {
			count++
		}
	}
	return count
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 100
}

func (m Model) sidebarWidth() int {
	w := m.contentWidth()
	if w > 40 {
		return 40
	}
	return w
}

func (m Model) listHeight() int {
	if m.height <= 0 {
		return 20
	}
	used := 6 + len(m.registry.Sorted())
	if m.searching {
		used += 2
	}
	h := m.height - used
	if h < 3 {
		return 3
	}
	return h
}

func filterByQuery(articles []feedapi.Article, query string) []feedapi.Article {
	needle := strings.ToLower(query)
	out := make([]feedapi.Article, 0, len(articles))
	for _, a := range articles {
		haystack := strings.ToLower(a.DisplayTitle() + " " + a.DisplaySummary())
		if strings.Contains(haystack, needle) {
			out = append(out, a)
		}
	}
	return out
}

func batchStatus(result readstate.BatchResult) string {
	verb := "unread"
	if result.MarkedRead {
		verb = "read"
	}
	if len(result.Failed) > 0 {
		return fmt.Sprintf("Marked %d as %s, %d failed", result.Applied, verb, len(result.Failed))
	}
	return fmt.Sprintf("Marked %d as %s", result.Applied, verb)
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

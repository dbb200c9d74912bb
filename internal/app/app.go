package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	aiservice "github.com/pdubbbbbs/fastmail-tui/internal/ai"
	"github.com/pdubbbbbs/fastmail-tui/internal/cache"
	"github.com/pdubbbbbs/fastmail-tui/internal/credential"
	"github.com/pdubbbbbs/fastmail-tui/internal/jmap"
	"github.com/pdubbbbbs/fastmail-tui/internal/keys"
	"github.com/pdubbbbbs/fastmail-tui/internal/model"
	appsync "github.com/pdubbbbbs/fastmail-tui/internal/sync"
	"github.com/pdubbbbbs/fastmail-tui/internal/ui"
	"github.com/pdubbbbbs/fastmail-tui/internal/ui/aiview"
	"github.com/pdubbbbbs/fastmail-tui/internal/ui/commandview"
	"github.com/pdubbbbbs/fastmail-tui/internal/ui/composeview"
	"github.com/pdubbbbbs/fastmail-tui/internal/ui/emaillist"
	"github.com/pdubbbbbs/fastmail-tui/internal/ui/helpview"
	"github.com/pdubbbbbs/fastmail-tui/internal/ui/mailboxtree"
	"github.com/pdubbbbbs/fastmail-tui/internal/ui/maskedview"
	"github.com/pdubbbbbs/fastmail-tui/internal/ui/preview"
	"github.com/pdubbbbbs/fastmail-tui/internal/ui/searchview"
	"github.com/pdubbbbbs/fastmail-tui/internal/ui/setupview"
)

// connectedMsg reports the result of the initial JMAP session fetch.
type connectedMsg struct {
	err error
}

// cachedEmailsMsg carries emails restored from the local cache so the
// list has content before the first network round trip completes.
type cachedEmailsMsg struct {
	emails []model.Email
}

// emailLoadedMsg carries a fully fetched email body for the preview.
type emailLoadedMsg struct {
	email model.Email
	err   error
}

// actionDoneMsg is sent after a mailbox action (archive, star, ...) has
// been applied on the server.
type actionDoneMsg struct {
	err error
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewMain ViewState = iota
	ViewSearch
	ViewMasked
	ViewCompose
	ViewAI
	ViewSetup
	ViewHelp
	ViewCommand
)

// focusPane identifies which main-view pane consumes navigation keys.
type focusPane int

const (
	focusMailboxes focusPane = iota
	focusEmails
	focusPreview
)

// connectTimeout bounds the initial session fetch.
const connectTimeout = 30 * time.Second

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the JMAP client and local cache.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	cfg        *model.AppConfig
	configPath string

	client     *jmap.Client
	assistant  *aiservice.Assistant
	emailCache *cache.EmailCache
	refresher  *appsync.Refresher
	keys       *keys.KeyMap

	mailboxTree mailboxtree.Model
	emailList   emaillist.Model
	previewPane preview.Model
	searchView  searchview.Model
	maskedView  maskedview.Model
	composeView composeview.Model
	aiView      aiview.Model
	setupView   setupview.Model
	helpView    helpview.Model
	commandView commandview.Model

	focus          focusPane
	currentMailbox model.Mailbox
	allEmails      []model.Email

	ready            bool
	connected        bool
	authErrorMessage string
	statusMessage    string
}

// New creates the root application model. The email cache may be nil
// when caching is disabled in the config.
func New(cfg *model.AppConfig, configPath string, emailCache *cache.EmailCache) Model {
	k := keys.DefaultKeyMap()
	client := jmap.NewClient(cfg.Fastmail.Host, credential.FastmailToken())
	assistant := loadAssistant(cfg)

	interval := time.Duration(cfg.UI.RefreshIntervalSec) * time.Second
	refresher := appsync.New(client, emailCache, interval, cfg.UI.PageSize, cfg.Cache.MaxMessages)

	m := Model{
		currentView: ViewMain,
		cfg:         cfg,
		configPath:  configPath,
		client:      client,
		assistant:   assistant,
		emailCache:  emailCache,
		refresher:   refresher,
		keys:        k,
		mailboxTree: mailboxtree.New(k, 80, 24),
		emailList:   emaillist.New(k, 80, 24),
		previewPane: preview.New(80, 24),
		searchView:  searchview.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: commandview.New(80, 24),
		focus:       focusMailboxes,
	}
	m.mailboxTree.SetFocused(true)

	if !credential.HasFastmailCredentials() {
		m.currentView = ViewSetup
		m.setupView = setupview.New(*cfg, 80, 24)
	}
	return m
}

// ForceSetup opens the credential wizard on startup regardless of
// whether credentials are already stored.
func (m Model) ForceSetup() Model {
	m.currentView = ViewSetup
	m.setupView = setupview.New(*m.cfg, 80, 24)
	return m
}

// loadAssistant attempts to create an AI assistant by loading the API
// key from the environment variable or system keyring. Returns nil if
// AI is disabled or no key is available.
func loadAssistant(cfg *model.AppConfig) *aiservice.Assistant {
	if !cfg.Claude.Enabled {
		return nil
	}
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		apiKey = credential.ClaudeAPIKey()
	}
	if apiKey == "" {
		return nil
	}
	return aiservice.New(apiKey, cfg.Claude.Model, cfg.Claude.MaxSummaryTokens)
}

// Init connects to the server and warms the list from the cache. On a
// fresh install it starts in the setup wizard instead.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewSetup {
		return m.setupView.Init()
	}
	return tea.Batch(m.connect(), m.loadCachedEmails())
}

// connect fetches the JMAP session in the background.
func (m Model) connect() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		return connectedMsg{err: client.Connect(ctx)}
	}
}

// loadCachedEmails restores recently seen emails from the local cache.
func (m Model) loadCachedEmails() tea.Cmd {
	if m.emailCache == nil {
		return nil
	}
	c := m.emailCache
	mailboxID := m.currentMailbox.ID
	limit := m.cfg.UI.PageSize
	return func() tea.Msg {
		emails, err := c.RecentEmails(context.Background(), mailboxID, limit)
		if err != nil {
			return cachedEmailsMsg{}
		}
		return cachedEmailsMsg{emails: emails}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resizeViews()
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case connectedMsg:
		if msg.err != nil {
			if jmap.IsAuthError(msg.err) {
				m.authErrorMessage = "Authentication failed. Run setup to update your token."
				return m.openSetup()
			}
			m.statusMessage = fmt.Sprintf("Connection failed: %v", msg.err)
			return m, nil
		}
		m.connected = true
		m.statusMessage = ""
		return m, m.refresher.Start()

	case cachedEmailsMsg:
		// Only use the cache while nothing fresher has arrived.
		if len(m.allEmails) == 0 && len(msg.emails) > 0 {
			m.allEmails = msg.emails
			m.searchView.SetEmails(msg.emails)
			return m, m.emailList.SetEmails(msg.emails)
		}
		return m, nil

	case appsync.RefreshResultMsg:
		return m.handleRefreshResult(msg)

	case mailboxtree.SelectedMailboxMsg:
		m.currentMailbox = msg.Mailbox
		m.emailList.SetTitle(msg.Mailbox.DisplayName())
		m.setFocus(focusEmails)
		m.refresher.SetMailbox(msg.Mailbox.ID)
		return m, m.refresher.RefreshNow()

	case emaillist.SelectedEmailMsg:
		m.previewPane.SetEmail(msg.Email)
		m.setFocus(focusPreview)
		cmds := []tea.Cmd{m.loadEmailBody(msg.Email.ID)}
		if msg.Email.IsUnread() {
			cmds = append(cmds, m.markRead(msg.Email.ID))
		}
		return m, tea.Batch(cmds...)

	case emailLoadedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Failed to load email: %v", msg.err)
			return m, nil
		}
		m.previewPane.SetEmail(msg.email)
		return m, nil

	case emaillist.ActionMsg:
		return m, m.performAction(msg)

	case actionDoneMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Action failed: %v", msg.err)
			return m, nil
		}
		m.statusMessage = ""
		return m, m.refresher.RefreshNow()

	case searchview.OpenEmailMsg:
		m.currentView = ViewMain
		m.previewPane.SetEmail(msg.Email)
		m.setFocus(focusPreview)
		return m, m.loadEmailBody(msg.Email.ID)

	case searchview.CloseMsg:
		m.currentView = ViewMain
		return m, nil

	case maskedview.CloseMsg:
		m.currentView = ViewMain
		return m, nil

	case composeview.CloseMsg:
		m.currentView = ViewMain
		if msg.Saved {
			m.statusMessage = "Draft saved"
			return m, m.refresher.RefreshNow()
		}
		return m, nil

	case aiview.CloseMsg:
		m.currentView = ViewMain
		return m, nil

	case aiview.UseReplyMsg:
		w, h := m.contentSize()
		m.composeView = composeview.NewReply(m.client, m.assistant, msg.Email, msg.Reply.Content, w, h)
		m.currentView = ViewCompose
		return m, m.composeView.Init()

	case commandview.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case setupview.DoneMsg:
		return m.finishSetup(msg)

	case tea.KeyMsg:
		if handled, next, cmd := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view.
	return m.updateActiveView(msg)
}

// handleRefreshResult applies a completed refresh cycle to the UI.
func (m Model) handleRefreshResult(msg appsync.RefreshResultMsg) (tea.Model, tea.Cmd) {
	waitCmd := m.refresher.WaitForNextResult()

	if msg.AuthError != nil {
		m.authErrorMessage = msg.AuthError.Message
		return m, waitCmd
	}
	if msg.Error != nil {
		m.statusMessage = fmt.Sprintf("Refresh failed: %v", msg.Error)
		return m, waitCmd
	}

	m.authErrorMessage = ""
	m.statusMessage = ""
	m.mailboxTree.SetMailboxes(msg.Mailboxes)

	if m.currentMailbox.ID == "" {
		if mb, ok := m.client.MailboxByID(msg.MailboxID); ok {
			m.currentMailbox = mb
			m.emailList.SetTitle(mb.DisplayName())
		}
	}

	var setCmd tea.Cmd
	if msg.MailboxID == m.currentMailbox.ID {
		m.allEmails = msg.Emails
		m.searchView.SetEmails(msg.Emails)
		setCmd = m.emailList.SetEmails(msg.Emails)
	}
	return m, tea.Batch(setCmd, waitCmd)
}

// handleGlobalKey processes keys that work regardless of the focused
// pane. It reports whether the key was consumed.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.refresher.Stop()
		return true, m, tea.Quit
	}

	// Help and command palette toggle from almost anywhere, but never
	// steal keys from text inputs.
	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return true, m, nil
		}
		return false, m, nil

	case ViewCommand:
		if key.Matches(msg, m.keys.Command) || key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return true, m, nil
		}
		return false, m, nil

	case ViewMain:
		// Handled below.

	default:
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.refresher.Stop()
		return true, m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return true, m, m.commandView.Focus()

	case key.Matches(msg, m.keys.Search):
		m.previousView = m.currentView
		m.currentView = ViewSearch
		m.searchView.SetEmails(m.allEmails)
		return true, m, m.searchView.Focus()

	case key.Matches(msg, m.keys.Compose):
		next, cmd := m.openCompose()
		return true, next, cmd

	case key.Matches(msg, m.keys.Reply):
		if email, ok := m.selectedEmail(); ok {
			w, h := m.contentSize()
			m.composeView = composeview.NewReply(m.client, m.assistant, email, "", w, h)
			m.previousView = m.currentView
			m.currentView = ViewCompose
			return true, m, m.composeView.Init()
		}

	case key.Matches(msg, m.keys.ReplyAll):
		if email, ok := m.selectedEmail(); ok {
			w, h := m.contentSize()
			m.composeView = composeview.NewReplyAll(m.client, m.assistant, email, "", w, h)
			m.previousView = m.currentView
			m.currentView = ViewCompose
			return true, m, m.composeView.Init()
		}

	case key.Matches(msg, m.keys.Forward):
		if email, ok := m.selectedEmail(); ok {
			w, h := m.contentSize()
			m.composeView = composeview.NewForward(m.client, m.assistant, email, w, h)
			m.previousView = m.currentView
			m.currentView = ViewCompose
			return true, m, m.composeView.Init()
		}

	case key.Matches(msg, m.keys.MaskedEmails):
		next, cmd := m.openMasked()
		return true, next, cmd

	case key.Matches(msg, m.keys.QuickMasked):
		w, h := m.contentSize()
		m.maskedView = maskedview.New(m.client, w, h)
		m.previousView = m.currentView
		m.currentView = ViewMasked
		return true, m, tea.Batch(m.maskedView.Init(), m.maskedView.StartCreate())

	case key.Matches(msg, m.keys.Summarize):
		if email, ok := m.selectedEmail(); ok && m.assistant != nil {
			w, h := m.contentSize()
			m.aiView = aiview.New(m.assistant, email, w, h)
			m.previousView = m.currentView
			m.currentView = ViewAI
			return true, m, m.aiView.Init()
		}
		if m.assistant == nil {
			m.statusMessage = "AI is not configured. Add a Claude API key in setup."
			return true, m, nil
		}

	case key.Matches(msg, m.keys.SuggestReply):
		if email, ok := m.selectedEmail(); ok && m.assistant != nil {
			w, h := m.contentSize()
			m.aiView = aiview.New(m.assistant, email, w, h)
			m.previousView = m.currentView
			m.currentView = ViewAI
			return true, m, tea.Batch(m.aiView.Init(), m.aiView.SuggestReplies())
		}
		if m.assistant == nil {
			m.statusMessage = "AI is not configured. Add a Claude API key in setup."
			return true, m, nil
		}

	case key.Matches(msg, m.keys.Refresh):
		return true, m, m.refresher.RefreshNow()

	case key.Matches(msg, m.keys.Back):
		switch m.focus {
		case focusPreview:
			m.setFocus(focusEmails)
			return true, m, nil
		case focusEmails:
			m.setFocus(focusMailboxes)
			return true, m, nil
		}

	case msg.String() == "tab":
		m.cycleFocus()
		return true, m, nil
	}

	return false, m, nil
}

// openCompose switches to an empty compose form.
func (m Model) openCompose() (tea.Model, tea.Cmd) {
	w, h := m.contentSize()
	m.composeView = composeview.New(m.client, m.assistant, w, h)
	m.previousView = m.currentView
	m.currentView = ViewCompose
	return m, m.composeView.Init()
}

// openMasked switches to the masked email manager.
func (m Model) openMasked() (tea.Model, tea.Cmd) {
	w, h := m.contentSize()
	m.maskedView = maskedview.New(m.client, w, h)
	m.previousView = m.currentView
	m.currentView = ViewMasked
	return m, m.maskedView.Init()
}

// openSetup switches to the credential wizard.
func (m Model) openSetup() (tea.Model, tea.Cmd) {
	w, h := m.contentSize()
	m.setupView = setupview.New(*m.cfg, w, h)
	m.previousView = m.currentView
	m.currentView = ViewSetup
	return m, m.setupView.Init()
}

// finishSetup rebuilds the client after the wizard stored credentials.
func (m Model) finishSetup(msg setupview.DoneMsg) (tea.Model, tea.Cmd) {
	m.currentView = ViewMain
	if !msg.Saved {
		return m, nil
	}

	if host := m.setupView.Host(); host != "" && host != m.cfg.Fastmail.Host {
		m.cfg.Fastmail.Host = host
		if err := model.SaveConfig(m.configPath, m.cfg); err != nil {
			m.statusMessage = fmt.Sprintf("Failed to save config: %v", err)
		}
	}

	m.refresher.Stop()
	m.client = jmap.NewClient(m.cfg.Fastmail.Host, credential.FastmailToken())
	m.assistant = loadAssistant(m.cfg)
	interval := time.Duration(m.cfg.UI.RefreshIntervalSec) * time.Second
	m.refresher = appsync.New(m.client, m.emailCache, interval, m.cfg.UI.PageSize, m.cfg.Cache.MaxMessages)
	m.connected = false
	m.authErrorMessage = ""
	return m, tea.Batch(m.connect(), m.loadCachedEmails())
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "refresh", "sync":
		return m, m.refresher.RefreshNow()
	case "compose", "new":
		return m.openCompose()
	case "masked":
		return m.openMasked()
	case "setup", "configure":
		return m.openSetup()
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil
	case "quit", "q":
		m.refresher.Stop()
		return m, tea.Quit
	default:
		return m, nil
	}
}

// performAction applies a list action on the server.
func (m Model) performAction(msg emaillist.ActionMsg) tea.Cmd {
	client := m.client
	email := msg.Email
	action := msg.Action
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		var err error
		switch action {
		case emaillist.ActionArchive:
			err = client.Archive(ctx, []string{email.ID})
		case emaillist.ActionDelete:
			err = client.MoveToTrash(ctx, []string{email.ID})
		case emaillist.ActionToggleStar:
			if email.IsStarred() {
				err = client.Unstar(ctx, []string{email.ID})
			} else {
				err = client.Star(ctx, []string{email.ID})
			}
		case emaillist.ActionToggleRead:
			if email.IsUnread() {
				err = client.MarkRead(ctx, []string{email.ID})
			} else {
				err = client.MarkUnread(ctx, []string{email.ID})
			}
		}
		return actionDoneMsg{err: err}
	}
}

// loadEmailBody fetches the full email, including body parts, for the
// preview pane.
func (m Model) loadEmailBody(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		email, err := client.EmailByID(ctx, id)
		return emailLoadedMsg{email: email, err: err}
	}
}

// markRead clears the unread flag on the server.
func (m Model) markRead(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		return actionDoneMsg{err: client.MarkRead(ctx, []string{id})}
	}
}

// selectedEmail returns the email under the cursor in the list, or the
// one open in the preview when that pane has focus.
func (m Model) selectedEmail() (model.Email, bool) {
	if m.focus == focusPreview {
		if email, ok := m.previewPane.Email(); ok {
			return email, true
		}
	}
	return m.emailList.Selected()
}

// setFocus moves keyboard focus between the main-view panes.
func (m *Model) setFocus(f focusPane) {
	m.focus = f
	m.mailboxTree.SetFocused(f == focusMailboxes)
	m.emailList.SetFocused(f == focusEmails)
}

// cycleFocus advances focus mailboxes -> emails -> preview -> mailboxes.
func (m *Model) cycleFocus() {
	switch m.focus {
	case focusMailboxes:
		m.setFocus(focusEmails)
	case focusEmails:
		m.setFocus(focusPreview)
	default:
		m.setFocus(focusMailboxes)
	}
}

// contentSize returns the usable content area, with a fallback before
// the first WindowSizeMsg arrives.
func (m Model) contentSize() (int, int) {
	if !m.ready {
		return 80, 24
	}
	return m.layout.ContentWidth(), m.layout.ContentHeight()
}

// resizeViews propagates the new layout to every component.
func (m *Model) resizeViews() {
	contentWidth := m.layout.ContentWidth()
	contentHeight := m.layout.ContentHeight()
	sidebarWidth := m.layout.SidebarWidth()
	mainWidth := m.layout.MainWidth()
	listHeight := contentHeight / 2

	m.mailboxTree.SetSize(sidebarWidth, contentHeight)
	m.emailList.SetSize(mainWidth, listHeight)
	m.previewPane.SetSize(mainWidth, contentHeight-listHeight)
	m.searchView.SetSize(contentWidth, contentHeight)
	m.maskedView.SetSize(contentWidth, contentHeight)
	m.composeView.SetSize(contentWidth, contentHeight)
	m.aiView.SetSize(contentWidth, contentHeight)
	m.setupView.SetSize(contentWidth, contentHeight)
	m.helpView.SetSize(contentWidth, contentHeight)
	m.commandView.SetSize(contentWidth, contentHeight)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewMain:
		return m.updateMain(msg)
	case ViewSearch:
		m.searchView, cmd = m.searchView.Update(msg)
	case ViewMasked:
		m.maskedView, cmd = m.maskedView.Update(msg)
	case ViewCompose:
		m.composeView, cmd = m.composeView.Update(msg)
	case ViewAI:
		m.aiView, cmd = m.aiView.Update(msg)
	case ViewSetup:
		m.setupView, cmd = m.setupView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// updateMain forwards keys to the focused pane only, and everything
// else to all three panes.
func (m Model) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if _, isKey := msg.(tea.KeyMsg); isKey {
		switch m.focus {
		case focusMailboxes:
			m.mailboxTree, cmd = m.mailboxTree.Update(msg)
		case focusEmails:
			m.emailList, cmd = m.emailList.Update(msg)
		case focusPreview:
			m.previewPane, cmd = m.previewPane.Update(msg)
		}
		return m, cmd
	}

	var cmds []tea.Cmd
	m.mailboxTree, cmd = m.mailboxTree.Update(msg)
	cmds = append(cmds, cmd)
	m.emailList, cmd = m.emailList.Update(msg)
	cmds = append(cmds, cmd)
	m.previewPane, cmd = m.previewPane.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.connectionStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// headerTitle shows the account when known.
func (m Model) headerTitle() string {
	if username := m.client.Username(); username != "" {
		return "Fastmail · " + username
	}
	return "Fastmail"
}

// connectionStatus summarizes connectivity and AI availability for the
// header's right side.
func (m Model) connectionStatus() string {
	var conn string
	switch {
	case !m.connected:
		conn = "connecting"
	case m.refresher.Status().State == appsync.RefreshRunning:
		conn = "refreshing"
	case m.refresher.Status().State == appsync.RefreshError:
		conn = "⚠ offline"
	default:
		conn = "connected"
	}

	if m.assistant != nil {
		return conn + " · AI on"
	}
	return conn
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewMain:
		return m.renderMain()
	case ViewSearch:
		return m.searchView.View()
	case ViewMasked:
		return m.maskedView.View()
	case ViewCompose:
		return m.composeView.View()
	case ViewAI:
		return m.aiView.View()
	case ViewSetup:
		return m.setupView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// renderMain joins the mailbox sidebar with the list/preview split.
func (m Model) renderMain() string {
	main := lipgloss.JoinVertical(
		lipgloss.Left,
		m.emailList.View(),
		m.previewPane.View(),
	)
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.mailboxTree.View(),
		main,
	)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.authErrorMessage != "" && m.currentView == ViewMain {
		return m.authErrorMessage
	}
	if m.statusMessage != "" && m.currentView == ViewMain {
		return m.statusMessage
	}

	switch m.currentView {
	case ViewSearch:
		return "enter open | esc close"
	case ViewMasked:
		return "n new | space toggle | d delete | esc back"
	case ViewCompose:
		return "enter submit | ctrl+a AI draft | esc cancel"
	case ViewAI:
		return "r suggest replies | enter use reply | esc close"
	case ViewSetup:
		return "enter next | esc cancel"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	default:
		return "q quit | ? help | / search | c compose | m masked | tab focus"
	}
}

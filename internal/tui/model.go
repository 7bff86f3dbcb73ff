package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/petebeckett/ocmetrics/internal/config"
	"github.com/petebeckett/ocmetrics/internal/metrics"
	"github.com/petebeckett/ocmetrics/internal/pricing"
	"github.com/petebeckett/ocmetrics/internal/refresh"
	"github.com/petebeckett/ocmetrics/internal/store"
	"github.com/petebeckett/ocmetrics/internal/tui/messages"
)

// Tab identifies one dashboard tab.
type Tab int

const (
	TabOverview Tab = iota
	TabModels
	TabSessions
	TabDaily

	tabCount
)

// Model is the main Bubbletea model. It owns the refresh coordinator: every
// reload (initial load and each 'r' press) begins a new generation, and
// results arriving for an older generation are discarded in Update.
type Model struct {
	cfg   *config.Config
	cache *pricing.Cache
	coord *refresh.Coordinator

	tabs      []string
	activeTab Tab

	records      []metrics.UsageRecord
	models       []metrics.ModelAggregate
	sessions     []metrics.SessionAggregate
	daily        []metrics.DailyAggregate
	summary      metrics.Summary
	dropped      int
	projectCount int
	sessionCount int
	messageCount int

	modelsTable   table.Model
	sessionsTable table.Model
	dailyTable    table.Model

	spinner spinner.Model
	loading bool
	loaded  bool
	width   int
	height  int
	err     error
}

// New creates the dashboard model. The pricing cache is shared process-wide
// so repeated reloads reuse the in-memory catalog.
func New(cfg *config.Config, cache *pricing.Cache) *Model {
	s := spinner.New(
		spinner.WithSpinner(spinner.Spinner{
			Frames: []string{".  ", ".. ", "...", "   "},
			FPS:    400,
		}),
		spinner.WithStyle(SpinnerStyle),
	)

	return &Model{
		cfg:       cfg,
		cache:     cache,
		coord:     &refresh.Coordinator{},
		tabs:      []string{"Overview", "Models", "Sessions", "Daily"},
		activeTab: TabOverview,
		spinner:   s,
		loading:   true,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.reloadCmd())
}

// reloadCmd starts a new reload generation and returns the command that reads
// the database and aggregates tokens. Begin is called here, on the Update
// goroutine, so the generation is claimed before any older command finishes.
func (m *Model) reloadCmd() tea.Cmd {
	gen := m.coord.Begin()
	dbPath := m.cfg.Storage.DBPath
	return func() tea.Msg {
		return loadUsage(dbPath, gen)
	}
}

func loadUsage(dbPath string, gen refresh.Generation) tea.Msg {
	s, err := store.Open(dbPath)
	if err != nil {
		return messages.UsageLoadedMsg{Gen: gen, Err: err}
	}
	defer func() { _ = s.Close() }()

	if err := s.CheckSchema(); err != nil {
		return messages.UsageLoadedMsg{Gen: gen, Err: err}
	}

	raws, err := s.AllRecords()
	if err != nil {
		return messages.UsageLoadedMsg{Gen: gen, Err: err}
	}
	labels, err := s.AllSessionLabels()
	if err != nil {
		return messages.UsageLoadedMsg{Gen: gen, Err: err}
	}
	projects, sessionCount, messageCount, err := s.Counts()
	if err != nil {
		return messages.UsageLoadedMsg{Gen: gen, Err: err}
	}

	records, dropped := metrics.NormalizeAll(raws)
	models := metrics.AggregateModels(records)
	sessions := metrics.AggregateSessions(records, labels)
	daily := metrics.AggregateDaily(records)

	return messages.UsageLoadedMsg{
		Gen:          gen,
		Records:      records,
		Dropped:      dropped,
		Models:       models,
		Sessions:     sessions,
		Daily:        daily,
		Summary:      metrics.Summarize(models, sessions),
		Projects:     projects,
		SessionCount: sessionCount,
		MessageCount: messageCount,
	}
}

// pricingCmd resolves prices for the generation's records in the background.
// The catalog load can hit the network; the generation is re-checked after it
// returns so a superseded reload never produces a message.
func (m *Model) pricingCmd(gen refresh.Generation, records []metrics.UsageRecord, models []metrics.ModelAggregate, sessions []metrics.SessionAggregate) tea.Cmd {
	cache, coord := m.cache, m.coord
	return func() tea.Msg {
		catalog := cache.Load(context.Background())
		if !coord.Current(gen) {
			return nil
		}

		resolver := pricing.NewResolver(catalog.Narrow(metrics.Targets(records)))
		annotatedModels, annotatedSessions := metrics.AnnotateCosts(models, sessions, records, resolver)

		return messages.PricingLoadedMsg{
			Gen:      gen,
			Models:   annotatedModels,
			Sessions: annotatedSessions,
			Summary:  metrics.Summarize(annotatedModels, annotatedSessions),
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "left":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "r":
			m.loading = true
			cmds = append(cmds, m.reloadCmd())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateTables()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case messages.UsageLoadedMsg:
		if !m.coord.Current(msg.Gen) {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			// Keep the previous aggregates on screen; the error banner
			// explains why they are stale.
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.loaded = true
		m.records = msg.Records
		m.dropped = msg.Dropped
		m.models = msg.Models
		m.sessions = msg.Sessions
		m.daily = msg.Daily
		m.summary = msg.Summary
		m.projectCount = msg.Projects
		m.sessionCount = msg.SessionCount
		m.messageCount = msg.MessageCount
		m.updateTables()
		cmds = append(cmds, m.pricingCmd(msg.Gen, msg.Records, msg.Models, msg.Sessions))

	case messages.PricingLoadedMsg:
		if !m.coord.Current(msg.Gen) {
			return m, nil
		}
		m.models = msg.Models
		m.sessions = msg.Sessions
		m.summary = msg.Summary
		m.updateTables()
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateTables() {
	if m.width == 0 || !m.loaded {
		return
	}

	availableWidth := m.width - 8
	tableHeight := m.cfg.UI.TableHeight
	if h := (m.height - 18) / 2; h > tableHeight {
		tableHeight = h
	}
	if tableHeight > 15 {
		tableHeight = 15
	}

	m.modelsTable = newModelsTable(m.models, availableWidth, tableHeight)
	m.sessionsTable = newSessionsTable(m.sessions, m.cfg.UI.SessionLimit, availableWidth, tableHeight)
	m.dailyTable = newDailyTable(m.daily, availableWidth, tableHeight)
	m.modelsTable.SetWidth(availableWidth - 2)
	m.sessionsTable.SetWidth(availableWidth - 2)
	m.dailyTable.SetWidth(availableWidth - 2)
}

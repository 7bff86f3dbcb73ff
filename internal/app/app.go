package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/petebeckett/ocmetrics/internal/config"
	"github.com/petebeckett/ocmetrics/internal/pricing"
	"github.com/petebeckett/ocmetrics/internal/tui"
)

// LoadConfig loads the YAML config, falling back to defaults when the file is
// missing or unreadable.
func LoadConfig() *config.Config {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return config.Default()
	}
	return cfg
}

// App owns the process-wide pricing cache and runs the dashboard.
type App struct {
	config *config.Config
	cache  *pricing.Cache
}

// New creates the application. The pricing cache is created once here so
// every reload cycle shares the same in-memory catalog and cache file.
func New(cfg *config.Config) *App {
	url := cfg.Pricing.CatalogURL
	if url == "" {
		url = pricing.DefaultCatalogURL
	}
	dir := cfg.Pricing.CacheDir
	if dir == "" {
		dir = pricing.DefaultCacheDir()
	}

	return &App{
		config: cfg,
		cache:  pricing.NewCache(url, dir, cfg.CatalogTTL()),
	}
}

// Run starts the Bubbletea program and blocks until it exits.
func (a *App) Run() error {
	model := tui.New(a.config, a.cache)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

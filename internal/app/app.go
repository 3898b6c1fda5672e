// Package app wires the storage tiers, migration pass, persisted cells
// and services together. It is the composition root the commands use.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lidapp/lid/internal/cell"
	"github.com/lidapp/lid/internal/integrity"
	"github.com/lidapp/lid/internal/migrate"
	"github.com/lidapp/lid/internal/pool"
	"github.com/lidapp/lid/internal/session"
	"github.com/lidapp/lid/internal/stats"
	"github.com/lidapp/lid/internal/storage"
)

// Version is the app version stamped into the storage version marker.
// Overridden at build time via -ldflags.
var Version = "0.0.0-dev"

// Consent levels. Anything at necessary or above enables persistence.
const (
	ConsentNone      = "none"
	ConsentNecessary = "necessary"
	ConsentAll       = "all"
)

// Config controls where the app keeps its data and where pools come from.
type Config struct {
	DBPath    string
	JarPath   string
	PoolURL   string
	RegionURL string // contains one %s for the state key
}

// ConfigFromEnv resolves paths and pool endpoints from the environment.
func ConfigFromEnv() (Config, error) {
	dbPath, err := storage.DefaultDBPath()
	if err != nil {
		return Config{}, err
	}
	jarPath, err := storage.DefaultJarPath()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    dbPath,
		JarPath:   jarPath,
		PoolURL:   "https://raw.githubusercontent.com/lidapp/questions/main/general.json",
		RegionURL: "https://raw.githubusercontent.com/lidapp/questions/main/states/%s.json",
	}
	if u := os.Getenv("LID_POOL_URL"); u != "" {
		cfg.PoolURL = u
	}
	if u := os.Getenv("LID_REGION_URL"); u != "" {
		cfg.RegionURL = u
	}
	return cfg, nil
}

// App holds every long-lived component for one run.
type App struct {
	Adapter  *storage.Adapter
	Engine   *stats.Engine
	Sessions *session.Manager
	Loader   *pool.Loader

	Stats          *cell.Cell[stats.Record]
	Mode           *cell.Cell[string]
	QuizDuration   *cell.Cell[int] // minutes
	ExcludeCorrect *cell.Cell[bool]
	SelectedState  *cell.Cell[string]
	Consent        *cell.Cell[string]
	Dark           *cell.Cell[bool]

	// Migration reports what the startup pass did.
	Migration migrate.Result

	cfg     Config
	durable *storage.SQLiteTier
	log     *slog.Logger
}

// Open builds the app: tiers, adapter, migration, cells, engine. The
// migration pass runs before any cell reads the durable store.
func Open(cfg Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	durable, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open durable store: %w", err)
	}
	jar, err := storage.OpenJar(cfg.JarPath)
	if err != nil {
		durable.Close()
		return nil, fmt.Errorf("open jar: %w", err)
	}

	adapter := storage.NewAdapter(Version, log,
		durable, storage.NewSessionTier(), jar)
	adapter.CheckVersion()

	// The consent record itself is always persisted; it is what makes
	// everything else persistable.
	consent := cell.New(adapter, storage.KeyConsent, ConsentNone, true,
		func(v string) bool {
			return v == ConsentNone || v == ConsentNecessary || v == ConsentAll
		}, log)
	enabled := consent.Read() != ConsentNone

	migrated := cell.New[bool](adapter, storage.KeyMigrationCompleted, false, enabled, nil, log)
	pass := migrate.New(adapter, durable, jar, migrated, log)
	result := pass.Run()

	statsCell := cell.New(adapter, storage.KeyStats, stats.NewRecord(), enabled, statsValid, log)
	engine := stats.NewEngine(statsCell, log)

	a := &App{
		Adapter:  adapter,
		Engine:   engine,
		Sessions: session.NewManager(engine),
		Loader:   pool.NewLoader(nil, log),

		Stats:          statsCell,
		Mode:           cell.New[string](adapter, storage.KeyMode, "practice", enabled, nil, log),
		QuizDuration:   cell.New(adapter, storage.KeyQuizDuration, 60, enabled, func(v int) bool { return v > 0 }, log),
		ExcludeCorrect: cell.New[bool](adapter, storage.KeyExcludeCorrect, false, enabled, nil, log),
		SelectedState:  cell.New[string](adapter, storage.KeySelectedState, "", enabled, nil, log),
		Consent:        consent,
		Dark:           cell.New[bool](adapter, storage.KeyDark, false, enabled, nil, log),

		Migration: result,
		cfg:       cfg,
		durable:   durable,
		log:       log,
	}
	return a, nil
}

// Close releases the durable store.
func (a *App) Close() error {
	return a.durable.Close()
}

// SelectState switches the active state. State questions reuse ids
// 301-310, so a switch resets exactly that range's answer state.
func (a *App) SelectState(state string) {
	if a.SelectedState.Read() == state {
		return
	}
	a.Engine.ResetRegionProgress(pool.RegionIDStart, pool.RegionIDEnd)
	a.SelectedState.Write(state)
}

// LoadPools fetches the general pool and, when a state is selected, its
// state pool.
func (a *App) LoadPools(ctx context.Context) (general, region []pool.Question) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	general = a.Loader.Load(ctx, a.cfg.PoolURL)
	if state := a.SelectedState.Read(); state != "" {
		region = a.Loader.LoadRegion(ctx, fmt.Sprintf(a.cfg.RegionURL, state))
	}
	return general, region
}

// StartSession begins a new quiz attempt using the persisted settings.
func (a *App) StartSession(general, region []pool.Question) *session.Session {
	a.Engine.SelfCheck()
	return a.Sessions.Start(general, region, session.Config{
		Size:           session.DefaultSize,
		Duration:       time.Duration(a.QuizDuration.Read()) * time.Minute,
		ExcludeCorrect: a.ExcludeCorrect.Read(),
	})
}

// statsValid checks a progress record against the stored-document schema.
func statsValid(r stats.Record) bool {
	raw, err := json.Marshal(r)
	if err != nil {
		return false
	}
	return integrity.StatsPredicate()(raw)
}

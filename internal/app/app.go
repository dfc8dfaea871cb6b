package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/dori/tallyboard/internal/config"
	"github.com/dori/tallyboard/internal/db"
	"github.com/dori/tallyboard/internal/notify"
	"github.com/dori/tallyboard/internal/tracker"
)

// App holds the application state and dependencies
type App struct {
	DB       *db.DB
	Notifier *notify.Notifier
	Config   *config.Config
	Log      zerolog.Logger

	// State is the current in-memory state. It only changes through Commit.
	State tracker.State

	logFile  *os.File
	lockFile *flock.Flock
	now      func() time.Time
}

// New creates a new application instance and loads the persisted documents
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		var err error
		if cfg, err = config.Load(".env"); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		Notifier: notify.NewNotifier(),
		Log:      zerolog.Nop(),
		now:      time.Now,
	}
	app.Notifier.SetEnabled(cfg.Notify)

	if cfg.Debug {
		if err := app.openLog(); err != nil {
			return nil, err
		}
	}

	// Only one process may own the documents: every save overwrites them in full
	if err := app.acquireLock(); err != nil {
		app.closeLog()
		return nil, err
	}

	database, err := db.Open(cfg.DBPath, app.Log)
	if err != nil {
		app.releaseLock()
		app.closeLog()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database
	app.State = tracker.Load(database, app.now())

	app.Log.Info().
		Int("boards", len(app.State.Boards)).
		Int("teams", len(app.State.Teams)).
		Int("points", app.State.Rewards.Points).
		Msg("state loaded")

	return app, nil
}

// Now returns the current time
func (a *App) Now() time.Time {
	return a.now()
}

// Commit persists the documents named by effect and adopts s as the current state.
// On a write failure the previous state is kept.
func (a *App) Commit(s tracker.State, effect tracker.Effect) error {
	if effect == tracker.EffectNone {
		a.State = s
		return nil
	}
	if err := tracker.Persist(a.DB, s, effect); err != nil {
		a.Log.Error().Err(err).Msg("persist failed")
		return fmt.Errorf("failed to save: %w", err)
	}
	a.State = s
	a.Log.Debug().Uint8("effect", uint8(effect)).Msg("state committed")
	return nil
}

func (a *App) openLog() error {
	f, err := os.OpenFile(a.Config.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	a.logFile = f
	a.Log = zerolog.New(f).Level(a.Config.LogLevel).With().Timestamp().Logger()
	return nil
}

func (a *App) closeLog() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, "tallyboard.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of tallyboard is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()
	a.closeLog()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

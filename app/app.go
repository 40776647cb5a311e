package app

import (
	"context"
	"fmt"
	"os"
	"sync"

	"waveline/app/annotation"
	"waveline/app/archive"
	"waveline/app/settings"
	"waveline/app/signal"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// App struct
type App struct {
	ctx context.Context

	// storeMu guards the store/session pair swap on archive load; the
	// session serializes its own mutations internally.
	storeMu sync.RWMutex
	store   *signal.Store
	session *annotation.Session
	proto   annotation.Protocol

	// clipboard init
	clipOnce sync.Once
	clipOK   bool
}

// NewApp creates a new App application struct with a fresh session for the
// configured annotation protocol.
func NewApp() *App {
	proto := annotation.ProtocolByName(settings.GetEffectiveSettings().AnnotationProtocol)
	return &App{
		proto:   proto,
		session: annotation.NewSession(proto),
	}
}

// Startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
}

// Ctx returns the Wails context for menu callbacks.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Log emits a structured log event to the frontend console window
func (a *App) Log(level, message string) {
	if a == nil || a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, "log", map[string]any{
		"level":   level,
		"message": message,
	})
}

// GetSavedWindowSize returns the persisted window geometry.
func (a *App) GetSavedWindowSize() (int, int, error) {
	eff := settings.GetEffectiveSettings()
	return eff.WindowWidth, eff.WindowHeight, nil
}

// SaveWindowSize persists the window geometry for the next run.
func (a *App) SaveWindowSize(width, height int) error {
	if width < 400 || height < 300 {
		return fmt.Errorf("window size %dx%d below minimum", width, height)
	}
	eff := settings.GetEffectiveSettings()
	eff.WindowWidth = width
	eff.WindowHeight = height
	return settings.NewSettingsService().SaveSettings(eff)
}

// ArchiveInfo describes a loaded archive for the frontend.
type ArchiveInfo struct {
	Recordings int      `json:"recordings"`
	Hash       string   `json:"hash,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Protocol   string   `json:"protocol"`
}

// OpenArchiveDialog lets the operator pick a parquet archive file and loads
// it.
func (a *App) OpenArchiveDialog() (*ArchiveInfo, error) {
	if a == nil || a.ctx == nil {
		return nil, fmt.Errorf("app context not initialised")
	}
	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Open Signal Archive",
		Filters: []runtime.FileFilter{
			{DisplayName: "Parquet Archives", Pattern: "*.parquet;*.parquet.gz;*.parquet.xz;*.parquet.bz2"},
			{DisplayName: "All Files", Pattern: "*"},
		},
	})
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	return a.LoadArchive(path)
}

// OpenArchiveDirDialog lets the operator pick a directory of per-session
// parquet files and loads it.
func (a *App) OpenArchiveDirDialog() (*ArchiveInfo, error) {
	if a == nil || a.ctx == nil {
		return nil, fmt.Errorf("app context not initialised")
	}
	path, err := runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Open Signal Archive Directory",
	})
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	return a.LoadArchive(path)
}

// LoadArchive reads the archive at path (file or directory), validates it
// and replaces the current store and session. A failed load leaves the
// previous store untouched; the store is always either fully valid or
// absent.
func (a *App) LoadArchive(path string) (*ArchiveInfo, error) {
	eff := settings.GetEffectiveSettings()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive path: %w", err)
	}

	var records []signal.Record
	var warnings []string
	var hash string
	if info.IsDir() {
		records, warnings, err = archive.LoadDirectory(path, eff.IncludeECG, eff.MaxArchiveFiles)
		if err != nil {
			return nil, err
		}
	} else {
		records, err = archive.LoadFile(path, eff.IncludeECG)
		if err != nil {
			return nil, err
		}
		if hash, err = archive.HashFile(path); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to hash archive: %v", err))
			hash = ""
		}
	}

	store, err := signal.NewStore(records, float64(eff.SpreadDurationSec), hash)
	if err != nil {
		return nil, fmt.Errorf("invalid archive: %w", err)
	}

	proto := annotation.ProtocolByName(eff.AnnotationProtocol)

	a.storeMu.Lock()
	a.store = store
	a.proto = proto
	a.session = annotation.NewSession(proto)
	a.storeMu.Unlock()

	for _, w := range warnings {
		a.Log("warn", w)
	}
	a.Log("info", fmt.Sprintf("Loaded archive with %d recordings (protocol=%s)", store.Len(), proto.Name()))
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "archive:loaded", store.Len())
	}

	return &ArchiveInfo{
		Recordings: store.Len(),
		Hash:       hash,
		Warnings:   warnings,
		Protocol:   proto.Name(),
	}, nil
}

// currentStore returns the active store/session pair.
func (a *App) currentStore() (*signal.Store, *annotation.Session) {
	a.storeMu.RLock()
	defer a.storeMu.RUnlock()
	return a.store, a.session
}

// RecordingOptions returns the recording dropdown entries, with done
// recordings prefixed by a checkmark.
func (a *App) RecordingOptions() []signal.OptionLabel {
	store, session := a.currentStore()
	if store == nil {
		return []signal.OptionLabel{}
	}
	return store.Options(session.IsDone)
}

// ConfidenceOptions returns the confidence labels for the active protocol.
func (a *App) ConfidenceOptions() []string {
	a.storeMu.RLock()
	proto := a.proto
	a.storeMu.RUnlock()
	labels := proto.ConfidenceLabels()
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l)
	}
	return out
}

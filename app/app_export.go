package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"waveline/app/annotation"
	"waveline/app/export"
	"waveline/app/settings"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// ExportRequest selects what to export and where.
type ExportRequest struct {
	Format        string `json:"format"`   // "csv" or "xlsx"
	BaseName      string `json:"baseName"` // without extension; optional
	AllRecordings bool   `json:"allRecordings"`
	UseDialog     bool   `json:"useDialog"`
}

// ExportAnnotations writes the current annotation table to disk. With
// UseDialog set the operator picks the destination through a save dialog;
// otherwise the configured export directory (or the working directory) is
// used. An empty table is a logged no-op.
func (a *App) ExportAnnotations(req ExportRequest) (*export.Result, error) {
	_, session := a.currentStore()
	var rows []annotation.Row
	if req.AllRecordings {
		rows = session.AllRows()
	} else {
		rows = session.Rows()
	}
	if len(rows) == 0 {
		a.Log("warn", "Export skipped: no annotations")
		return &export.Result{Skipped: true}, nil
	}

	format := req.Format
	if format == "" {
		format = "csv"
	}

	baseName := strings.TrimSpace(req.BaseName)
	if baseName == "" {
		baseName = a.defaultExportName()
	}

	dir, baseName, err := a.exportDestination(req, format, baseName)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		a.Log("info", "Export cancelled")
		return &export.Result{Skipped: true}, nil
	}

	res, err := export.Rows(rows, format, dir, baseName)
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}
	if res.Skipped {
		a.Log("warn", fmt.Sprintf("Export skipped: unknown format %q", format))
	} else {
		a.Log("info", fmt.Sprintf("Exported %d annotations to %s", res.Rows, res.Path))
	}
	return res, nil
}

// defaultExportName derives a base filename from the archive hash so
// exports from different archives do not collide.
func (a *App) defaultExportName() string {
	store, _ := a.currentStore()
	if store != nil {
		if h := store.Hash(); len(h) >= 8 {
			return export.DefaultBaseName + "_" + h[:8]
		}
	}
	return export.DefaultBaseName
}

func (a *App) exportDestination(req ExportRequest, format, baseName string) (string, string, error) {
	if req.UseDialog && a.ctx != nil {
		path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
			Title:           "Export Annotations",
			DefaultFilename: baseName + "." + format,
		})
		if err != nil {
			return "", "", err
		}
		if path == "" {
			return "", "", nil
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return filepath.Dir(path), base, nil
	}

	dir := settings.GetEffectiveSettings().ExportDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		dir = wd
	}
	return dir, baseName, nil
}

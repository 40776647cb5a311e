package settings

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SettingsService manages reading/writing settings from disk. It is bound
// to the frontend so the settings dialog can round-trip values.
type SettingsService struct {
	ctx context.Context
}

func NewSettingsService() *SettingsService {
	return &SettingsService{}
}

// Startup receives the Wails context
func (s *SettingsService) Startup(ctx context.Context) {
	s.ctx = ctx
}

// GetSettings returns the effective settings for the frontend.
func (s *SettingsService) GetSettings() (Settings, error) {
	return GetEffectiveSettings(), nil
}

// SaveSettings persists only the values that differ from defaults into YAML
// next to the binary, so a defaults-only state leaves no file behind.
func (s *SettingsService) SaveSettings(in Settings) error {
	old := GetEffectiveSettings()

	data := make(map[string]any)
	if in.AnnotationProtocol != defaultSettings.AnnotationProtocol && (in.AnnotationProtocol == "complex" || in.AnnotationProtocol == "peak") {
		data["annotation_protocol"] = in.AnnotationProtocol
	}
	if in.FilterOrder != defaultSettings.FilterOrder && in.FilterOrder >= 1 && in.FilterOrder <= 10 {
		data["filter_order"] = in.FilterOrder
	}
	if in.LowCutHz != defaultSettings.LowCutHz && in.LowCutHz > 0 {
		data["low_cut_hz"] = in.LowCutHz
	}
	if in.HighCutHz != defaultSettings.HighCutHz && in.HighCutHz > 0 {
		data["high_cut_hz"] = in.HighCutHz
	}
	if in.SampleRate != defaultSettings.SampleRate && in.SampleRate > 0 {
		data["sample_rate"] = in.SampleRate
	}
	if in.SpreadDurationSec != defaultSettings.SpreadDurationSec && in.SpreadDurationSec > 0 {
		data["spread_duration_sec"] = in.SpreadDurationSec
	}
	if in.IncludeECG != defaultSettings.IncludeECG {
		data["include_ecg"] = in.IncludeECG
	}
	if in.MaxArchiveFiles != defaultSettings.MaxArchiveFiles && in.MaxArchiveFiles >= 10 {
		data["max_archive_files"] = in.MaxArchiveFiles
	}
	if strings.TrimSpace(in.ExportDir) != "" {
		data["export_dir"] = strings.TrimSpace(in.ExportDir)
	}

	// Preserve window size (not visible in the settings dialog, but must
	// persist). Use incoming values if provided, otherwise keep the old ones.
	windowWidth := in.WindowWidth
	if windowWidth == 0 {
		windowWidth = old.WindowWidth
	}
	if windowWidth != defaultSettings.WindowWidth && windowWidth >= 400 {
		data["window_width"] = windowWidth
	}
	windowHeight := in.WindowHeight
	if windowHeight == 0 {
		windowHeight = old.WindowHeight
	}
	if windowHeight != defaultSettings.WindowHeight && windowHeight >= 300 {
		data["window_height"] = windowHeight
	}

	// Preserve instance ID the same way.
	instanceID := strings.TrimSpace(in.InstanceID)
	if instanceID == "" {
		instanceID = strings.TrimSpace(old.InstanceID)
	}
	if instanceID != "" {
		data["instance_id"] = instanceID
	}

	path, err := settingsFilePath()
	if err != nil {
		return err
	}

	if len(data) == 0 {
		// If there is an existing file, remove it to reflect defaults-only state
		if _, statErr := os.Stat(path); statErr == nil {
			_ = os.Remove(path)
		}
		return nil
	}

	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// EnsureInstanceID generates and saves a unique instance ID if one doesn't exist
func (s *SettingsService) EnsureInstanceID() error {
	settings := GetEffectiveSettings()
	if strings.TrimSpace(settings.InstanceID) != "" {
		return nil
	}
	settings.InstanceID = uuid.New().String()
	return s.SaveSettings(settings)
}

package settings

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GetEffectiveSettings returns the effective settings (defaults overlaid
// with file overrides if any). If anything goes wrong, it returns defaults.
func GetEffectiveSettings() Settings {
	settings := defaultSettings
	path, err := settingsFilePath()
	if err != nil {
		return settings
	}
	if _, err := os.Stat(path); err != nil {
		// no file or other stat error -> return defaults
		return settings
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return settings
	}
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return settings
	}
	overlay(&settings, m)
	return settings
}

// overlay applies on-disk overrides onto settings, key by key, so missing
// keys keep their defaults and malformed values are ignored.
func overlay(settings *Settings, m map[string]any) {
	if v, ok := stringValue(m, "annotation_protocol"); ok && (v == "complex" || v == "peak") {
		settings.AnnotationProtocol = v
	}
	if v, ok := intValue(m, "filter_order"); ok && v >= 1 && v <= 10 {
		settings.FilterOrder = v
	}
	if v, ok := floatValue(m, "low_cut_hz"); ok && v > 0 {
		settings.LowCutHz = v
	}
	if v, ok := floatValue(m, "high_cut_hz"); ok && v > 0 {
		settings.HighCutHz = v
	}
	if v, ok := intValue(m, "sample_rate"); ok && v > 0 {
		settings.SampleRate = v
	}
	if v, ok := intValue(m, "spread_duration_sec"); ok && v > 0 {
		settings.SpreadDurationSec = v
	}
	if v, ok := m["include_ecg"]; ok {
		if vb, okb := v.(bool); okb {
			settings.IncludeECG = vb
		}
	}
	if v, ok := intValue(m, "max_archive_files"); ok && v >= 10 {
		settings.MaxArchiveFiles = v
	}
	if v, ok := stringValue(m, "export_dir"); ok {
		settings.ExportDir = v
	}
	if v, ok := intValue(m, "window_width"); ok && v >= 400 {
		settings.WindowWidth = v
	}
	if v, ok := intValue(m, "window_height"); ok && v >= 300 {
		settings.WindowHeight = v
	}
	if v, ok := stringValue(m, "instance_id"); ok {
		settings.InstanceID = v
	}
}

func stringValue(m map[string]any, key string) (string, bool) {
	if v, ok := m[key]; ok {
		if vs, oks := v.(string); oks {
			return vs, true
		}
	}
	return "", false
}

func intValue(m map[string]any, key string) (int, bool) {
	if v, ok := m[key]; ok {
		if vi, oki := v.(int); oki {
			return vi, true
		}
	}
	return 0, false
}

// floatValue accepts both int and float YAML scalars for float fields.
func floatValue(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func settingsFilePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(exe)
	return filepath.Join(dir, "waveline.yml"), nil
}

package settings

// Settings holds the user-tunable configuration. Values not present in the
// on-disk file fall back to defaults.
type Settings struct {
	// AnnotationProtocol selects the annotation variant: "complex" (three
	// marks i/j/k) or "peak" (single mark with confidence popup).
	AnnotationProtocol string `json:"annotationProtocol" yaml:"annotation_protocol"`

	// Band-pass defaults for the inspection trace.
	FilterOrder int     `json:"filterOrder" yaml:"filter_order"`
	LowCutHz    float64 `json:"lowCutHz" yaml:"low_cut_hz"`
	HighCutHz   float64 `json:"highCutHz" yaml:"high_cut_hz"`
	SampleRate  int     `json:"sampleRate" yaml:"sample_rate"`

	// SpreadDurationSec is the time span each recording's samples are spread
	// across on the plot's x-axis.
	SpreadDurationSec int `json:"spreadDurationSec" yaml:"spread_duration_sec"`

	// IncludeECG requires and renders the ecg_signal archive column.
	IncludeECG bool `json:"includeEcg" yaml:"include_ecg"`

	// MaxArchiveFiles caps directory ingestion.
	MaxArchiveFiles int `json:"maxArchiveFiles" yaml:"max_archive_files"`

	// ExportDir is the fallback export location when no save dialog is
	// available. Empty means the current working directory.
	ExportDir string `json:"exportDir" yaml:"export_dir"`

	// Window geometry, persisted across runs.
	WindowWidth  int `json:"windowWidth" yaml:"window_width"`
	WindowHeight int `json:"windowHeight" yaml:"window_height"`

	// InstanceID uniquely identifies this installation.
	InstanceID string `json:"instanceId" yaml:"instance_id"`
}

var defaultSettings = Settings{
	AnnotationProtocol: "complex",
	FilterOrder:        2,
	LowCutHz:           1.5,
	HighCutHz:          10.0,
	SampleRate:         250,
	SpreadDurationSec:  120,
	IncludeECG:         false,
	MaxArchiveFiles:    500,
	ExportDir:          "",
	WindowWidth:        1024,
	WindowHeight:       768,
}

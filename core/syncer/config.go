package syncer

import (
	"time"

	"quest-sync/core/models"
)

// Config holds the sync workflow settings.
type Config struct {
	// OutputRoot holds the snapshot state under .sync/<language>.
	OutputRoot string `mapstructure:"output_root" default:"output"`
	// AudioRoot holds artifacts under <language>/<zone>.
	AudioRoot    string `mapstructure:"audio_root" default:"output/audio"`
	LanguageCode string `mapstructure:"language_code" default:"de"`
	// CacheTTLSeconds is the merged-record cache lifetime. Negative disables it.
	CacheTTLSeconds   int  `mapstructure:"cache_ttl_seconds" default:"300"`
	OnlyNewAndChanged bool `mapstructure:"only_new_and_changed" default:"true"`
	RepairMissing     bool `mapstructure:"repair_missing" default:"false"`
	Workers           int  `mapstructure:"workers" default:"1"`
	DelayMillis       int  `mapstructure:"delay_millis" default:"500"`
	// Variants is a comma separated list of voice variants.
	Variants string `mapstructure:"variants" default:"male,female"`
	// ExportPrefix is the object prefix for downstream artifact export.
	ExportPrefix string `mapstructure:"export_prefix" default:"audio"`
	AutoExport   bool   `mapstructure:"auto_export" default:"false"`
}

// Options converts the config into orchestrator options.
func (c Config) Options() (Options, error) {
	variants, err := models.ParseVariants(c.Variants)
	if err != nil {
		return Options{}, err
	}
	return Options{
		LanguageCode: c.LanguageCode,
		AudioRoot:    c.AudioRoot,
		Variants:     variants,
		Workers:      c.Workers,
		Delay:        time.Duration(c.DelayMillis) * time.Millisecond,
	}, nil
}

// ApplyOptions returns the configured defaults for Apply.
func (c Config) ApplyOptions() ApplyOptions {
	return ApplyOptions{
		OnlyNewAndChanged: c.OnlyNewAndChanged,
		RepairMissing:     c.RepairMissing,
		AutoExport:        c.AutoExport,
	}
}

// CacheTTL returns the merged-record cache lifetime.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds < 0 {
		return -1
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/soocke/frame-annotator-go/assets"
)

// TrackerConfig selects the tracker used when propagating to the next frame.
type TrackerConfig struct {
	Kind         string  `json:"kind"` // "ncc" or "none"
	SearchRadius int     `json:"search_radius"`
	Stride       int     `json:"stride"`
	Threshold    float64 `json:"threshold"`
	Smooth       bool    `json:"smooth"`
}

// Config holds runtime configuration for editing and app behavior.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`
	Dark  bool `json:"dark"` // dark UI palette
	// Gesture parameters
	CornerThreshold float64 `json:"corner_threshold"`
	CenterThreshold float64 `json:"center_threshold"`
	ClickThreshold  int     `json:"click_threshold"`
	IdentityStep    int     `json:"identity_step"`
	MaxObjectID     int     `json:"max_object_id"`

	JumpFrames     int      `json:"jump_frames"`
	RecoveryPath   string   `json:"recovery_path"`
	ClassNames     []string `json:"class_names"`
	FrameCacheSize int      `json:"frame_cache_size"`

	Tracker TrackerConfig `json:"tracker"`

	// Debug resource logging interval in seconds.
	ResourceLogSeconds int `json:"resource_log_seconds"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	names, err := assets.DefaultClassNames()
	if err != nil {
		names = nil
	}
	return &Config{
		Debug:           false,
		CornerThreshold: 8,
		CenterThreshold: 10,
		ClickThreshold:  5,
		IdentityStep:    20,
		MaxObjectID:     100,
		JumpFrames:      25,
		RecoveryPath:    "save.xml",
		ClassNames:      names,
		FrameCacheSize:  8,
		Tracker: TrackerConfig{
			Kind:         "ncc",
			SearchRadius: 32,
			Stride:       2,
			Threshold:    0.5,
			Smooth:       false,
		},
		ResourceLogSeconds: 5,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.CornerThreshold <= 0 {
		c.CornerThreshold = d.CornerThreshold
	}
	if c.CenterThreshold <= 0 {
		c.CenterThreshold = d.CenterThreshold
	}
	if c.ClickThreshold < 0 {
		c.ClickThreshold = d.ClickThreshold
	}
	if c.IdentityStep <= 0 {
		c.IdentityStep = d.IdentityStep
	}
	if c.MaxObjectID < 1 {
		c.MaxObjectID = d.MaxObjectID
	}
	if c.JumpFrames < 1 {
		c.JumpFrames = d.JumpFrames
	}
	if strings.TrimSpace(c.RecoveryPath) == "" {
		c.RecoveryPath = d.RecoveryPath
	}
	if len(c.ClassNames) == 0 {
		c.ClassNames = d.ClassNames
	}
	if c.FrameCacheSize < 2 {
		c.FrameCacheSize = d.FrameCacheSize
	}
	c.Tracker.Kind = strings.ToLower(strings.TrimSpace(c.Tracker.Kind))
	if c.Tracker.Kind == "" {
		c.Tracker.Kind = "none"
	}
	if c.Tracker.SearchRadius <= 0 {
		c.Tracker.SearchRadius = d.Tracker.SearchRadius
	}
	if c.Tracker.Stride <= 0 {
		c.Tracker.Stride = d.Tracker.Stride
	}
	if c.Tracker.Threshold <= 0 || c.Tracker.Threshold > 1 {
		c.Tracker.Threshold = d.Tracker.Threshold
	}
	if c.ResourceLogSeconds <= 0 {
		c.ResourceLogSeconds = d.ResourceLogSeconds
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// ClassName returns the display name of class id (1-based), "" when unknown.
func (c *Config) ClassName(id int) string {
	if id < 1 || id > len(c.ClassNames) {
		return ""
	}
	return c.ClassNames[id-1]
}

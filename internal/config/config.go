package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

type Config struct {
	InputPath      string `yaml:"input"`
	ContentPath    string `yaml:"content"`
	OutputVideo    string `yaml:"output"`
	Workers        int    `yaml:"workers"`
	ShowStats      bool   `yaml:"show_stats"`
	ScenarioInput  string `yaml:"scenario_input"`
	ScenarioOutput string `yaml:"scenario_output"`
	BuildVersion   string `yaml:"-"`

	Video     VideoConfig     `yaml:"video"`
	Text      TextConfig      `yaml:"text"`
	Lens      LensConfig      `yaml:"lens"`
	Highlight HighlightConfig `yaml:"highlight"`
	Narration NarrationConfig `yaml:"narration"`
	Assets    AssetsConfig    `yaml:"assets"`
	CTA       CTAConfig       `yaml:"cta"`
	Detector  DetectorConfig  `yaml:"detector"`
}

// VideoConfig describes the encoded output. Width/Height of 0 keep the
// canvas (base image) size.
type VideoConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	FPS          int     `yaml:"fps"`
	DPI          int     `yaml:"dpi"`
	Page         int     `yaml:"page"`
	Encoder      string  `yaml:"encoder"` // "auto" picks the best H.264 encoder ffmpeg offers
	Quality      int     `yaml:"quality"` // 0 picks the encoder's default
	Transition   string  `yaml:"transition"`
	FadeDuration float64 `yaml:"fade_duration"`
	Preset       string  `yaml:"preset"`
}

type TextConfig struct {
	FontPath     string  `yaml:"font"`
	MaxSizeRatio float64 `yaml:"max_size_ratio"` // of canvas height
	MinSize      float64 `yaml:"min_size"`
	SizeStep     float64 `yaml:"size_step"`
	LineSpacing  float64 `yaml:"line_spacing"`
	ReadingTail  float64 `yaml:"reading_tail"`
	MinTyping    float64 `yaml:"min_typing"`
	Reflow       bool    `yaml:"reflow"`
	LeftReserve  float64 `yaml:"left_reserve"`
	Padding      float64 `yaml:"padding"`
	BoxHeight    float64 `yaml:"box_height"`
	TextWidth    float64 `yaml:"text_width"`
	IconSize     int     `yaml:"icon_size"`
	IconGap      int     `yaml:"icon_gap"`
	BlurSigma    float64 `yaml:"blur_sigma"`
	CornerRadius int     `yaml:"corner_radius"`
}

type LensConfig struct {
	StartX         float64 `yaml:"start_x"`
	StartY         float64 `yaml:"start_y"`
	Size           int     `yaml:"size"`
	Zoom           float64 `yaml:"zoom"`
	BorderWidth    int     `yaml:"border_width"`
	BorderColor    string  `yaml:"border_color"`
	MaxTravel      float64 `yaml:"max_travel"`
	TravelShare    float64 `yaml:"travel_share"`
	PulseDuration  float64 `yaml:"pulse_duration"`
	PulseAmplitude float64 `yaml:"pulse_amplitude"`
	PulseRate      float64 `yaml:"pulse_rate"`
	ShadowOffset   int     `yaml:"shadow_offset"`
}

type HighlightConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Duration float64 `yaml:"duration"`
	Radius   int     `yaml:"radius"`
	MaxWidth float64 `yaml:"max_width"`
	Lift     int     `yaml:"lift"` // extra pixels above the block
}

// NarrationConfig controls per-block audio. Mode is one of
// "none", "optional", "required".
type NarrationConfig struct {
	Mode            string   `yaml:"mode"`
	Dir             string   `yaml:"dir"`
	DefaultDuration float64  `yaml:"default_duration"`
	TTSCommand      []string `yaml:"tts_command"`
	Parallel        int      `yaml:"parallel"`
}

type AssetsConfig struct {
	BulletIcon  string   `yaml:"bullet_icon"`
	Cartoon     string   `yaml:"cartoon"`
	CartoonCrop bool     `yaml:"cartoon_crop"`
	HeaderSlots []string `yaml:"header_slots"`
}

type CTAConfig struct {
	URL      string  `yaml:"url"`
	Caption  string  `yaml:"caption"`
	Duration float64 `yaml:"duration"`
}

type DetectorConfig struct {
	Variant       string  `yaml:"variant"`
	MinBlockArea  int     `yaml:"min_block_area"`
	EdgeThreshold float64 `yaml:"edge_threshold"`
}

// SegmentParams describe the encoding of one scene. Width/Height are the
// output frame; 0 keeps the scene size.
type SegmentParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	AudioPath     string
	AudioDelay    float64
	Encoder       string
	Quality       int
	Index         int
}

// ConcatParams join the scene segments into the final video.
type ConcatParams struct {
	Durations  []float64 // per segment, seconds
	Transition string    // xfade transition, "" or "none" for a hard cut
	Fade       float64
	Encoder    string
	Quality    int
	FPS        int
}

// Crossfades reports whether n segments are joined with a transition.
func (p ConcatParams) Crossfades(n int) bool {
	return n > 1 && p.Fade > 0 && p.Transition != "" && p.Transition != "none"
}

func Default() *Config {
	return &Config{
		Workers: runtime.NumCPU(),
		Video: VideoConfig{
			FPS:          24,
			DPI:          150,
			Encoder:      "auto",
			Quality:      0,
			Transition:   "fade",
			FadeDuration: 0.6,
		},
		Text: TextConfig{
			MaxSizeRatio: 0.07,
			MinSize:      10,
			SizeStep:     2,
			LineSpacing:  10,
			ReadingTail:  4.0,
			MinTyping:    0.5,
			LeftReserve:  0.2,
			Padding:      0.03,
			BoxHeight:    0.8,
			TextWidth:    1.0,
			IconSize:     32,
			IconGap:      10,
			BlurSigma:    8,
			CornerRadius: 40,
		},
		Lens: LensConfig{
			StartX:         -200,
			StartY:         100,
			Size:           150,
			Zoom:           2.0,
			BorderWidth:    4,
			BorderColor:    "#ffffff",
			MaxTravel:      3.0,
			TravelShare:    0.4,
			PulseDuration:  3.5,
			PulseAmplitude: 0.05,
			PulseRate:      2,
			ShadowOffset:   5,
		},
		Highlight: HighlightConfig{
			Enabled:  true,
			Duration: 2.0,
			Radius:   50,
			MaxWidth: 10,
			Lift:     25,
		},
		Narration: NarrationConfig{
			Mode:            "optional",
			Dir:             "input/audio",
			DefaultDuration: 4.0,
			Parallel:        4,
		},
		Assets: AssetsConfig{
			CartoonCrop: true,
			HeaderSlots: []string{"header1", "header2", "header3", "header4"},
		},
		CTA: CTAConfig{
			Duration: 4.0,
		},
		Detector: DetectorConfig{
			Variant:       "contrast",
			MinBlockArea:  500,
			EdgeThreshold: 30.0,
		},
	}
}

// ApplyPreset switches the output geometry for a social format.
func (c *Config) ApplyPreset(preset string) error {
	switch preset {
	case "":
		return nil
	case "16:9":
		c.Video.Width, c.Video.Height = 1280, 720
	case "9:16":
		c.Video.Width, c.Video.Height = 1080, 1920
		c.Text.TextWidth = 0.85
	case "4:5":
		c.Video.Width, c.Video.Height = 1080, 1350
	default:
		return fmt.Errorf("unknown preset %q", preset)
	}
	c.Video.Preset = preset
	return nil
}

func (c *Config) Validate() error {
	if c.Video.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Video.FPS)
	}
	if c.Video.FadeDuration < 0 {
		return fmt.Errorf("fade duration must not be negative")
	}
	if c.Lens.Zoom <= 0 {
		return fmt.Errorf("lens zoom must be positive, got %.2f", c.Lens.Zoom)
	}
	if c.Lens.Size <= 0 {
		return fmt.Errorf("lens size must be positive, got %d", c.Lens.Size)
	}
	if c.Text.MinSize <= 0 || c.Text.SizeStep <= 0 {
		return fmt.Errorf("font min size and step must be positive")
	}
	if (c.Video.Width == 0) != (c.Video.Height == 0) {
		return fmt.Errorf("output width and height must be set together")
	}
	switch c.Narration.Mode {
	case "none", "optional", "required":
	default:
		return fmt.Errorf("unknown narration mode %q", c.Narration.Mode)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}

// Load reads path over the defaults. An empty path tries the usual
// locations and falls back to defaults when none exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func findConfigFile() string {
	candidates := []string{
		"info2video.yaml",
		filepath.Join("config", "info2video.yaml"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "info2video", "config.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

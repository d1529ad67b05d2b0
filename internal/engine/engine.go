// Package engine runs a whole render: it plans the scenes of an
// infographic, renders them in parallel and joins the segments.
package engine

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/info2video/internal/analyzer"
	"github.com/ivlev/info2video/internal/config"
	"github.com/ivlev/info2video/internal/content"
	"github.com/ivlev/info2video/internal/director"
	"github.com/ivlev/info2video/internal/effects"
	"github.com/ivlev/info2video/internal/fonts"
	"github.com/ivlev/info2video/internal/logging"
	"github.com/ivlev/info2video/internal/narration"
	"github.com/ivlev/info2video/internal/source"
	"github.com/ivlev/info2video/internal/svgtext"
	"github.com/ivlev/info2video/internal/video"
)

// NarrationResolver supplies one narration per content block.
type NarrationResolver interface {
	Resolve(ctx context.Context, blocks []content.Block) ([]director.Narration, error)
}

type VideoProject struct {
	Config   *config.Config
	Source   source.Source
	Encoder  video.VideoEncoder
	Detector analyzer.Detector
	Narrator NarrationResolver

	RunID   string
	log     zerolog.Logger
	tempDir string
}

// NewVideoProject wires the detector and narration resolver from cfg.
func NewVideoProject(cfg *config.Config, src source.Source, enc video.VideoEncoder, log zerolog.Logger) (*VideoProject, error) {
	det, err := analyzer.NewDetector(cfg.Detector.Variant, cfg.Detector.MinBlockArea, cfg.Detector.EdgeThreshold)
	if err != nil {
		return nil, err
	}
	res, err := narration.NewResolver(cfg.Narration, log)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	return &VideoProject{
		Config:   cfg,
		Source:   src,
		Encoder:  enc,
		Detector: det,
		Narrator: res,
		RunID:    runID,
		log:      logging.WithRun(log, runID[:8]),
	}, nil
}

// Plan is everything the renderer needs: the timeline and the shared
// assets it is drawn with.
type Plan struct {
	Scenario *director.Scenario
	Kit      effects.Kit
}

// Prepare loads the base image and assets and produces the scenario,
// either read from Config.ScenarioInput or planned from the content.
func (p *VideoProject) Prepare(ctx context.Context) (*Plan, error) {
	cfg := p.Config

	base, scale, err := source.Base(p.Source, cfg.Video.Page, cfg.Video.DPI)
	if err != nil {
		return nil, fmt.Errorf("base image: %w", err)
	}
	p.log.Info().
		Str("input", cfg.InputPath).
		Int("width", base.Bounds().Dx()).
		Int("height", base.Bounds().Dy()).
		Msg("base image ready")

	family := fonts.Load(cfg.Text.FontPath, p.log)
	kit := effects.Kit{
		Base:    base,
		Family:  family,
		Icon:    source.LoadOptionalImage(cfg.Assets.BulletIcon, "bullet icon", p.log),
		Cartoon: p.loadCartoon(),
		Config:  cfg,
	}

	var scenario *director.Scenario
	if cfg.ScenarioInput != "" {
		scenario, err = director.ReadScenario(cfg.ScenarioInput)
		if err != nil {
			return nil, fmt.Errorf("read scenario: %w", err)
		}
		p.log.Info().Str("scenario", cfg.ScenarioInput).Int("scenes", len(scenario.Scenes)).Msg("using scenario")
	} else {
		scenario, err = p.plan(ctx, base, scale, family)
		if err != nil {
			return nil, err
		}
	}

	total := 0.0
	for _, d := range scenario.Durations() {
		total += d
	}
	p.log.Info().Int("scenes", len(scenario.Scenes)).Float64("seconds", total).Msg("scenario ready")

	if cfg.ScenarioOutput != "" {
		if err := director.WriteScenario(scenario, cfg.ScenarioOutput); err != nil {
			return nil, fmt.Errorf("write scenario: %w", err)
		}
		p.log.Info().Str("scenario", cfg.ScenarioOutput).Msg("scenario saved")
	}
	return &Plan{Scenario: scenario, Kit: kit}, nil
}

func (p *VideoProject) plan(ctx context.Context, base *image.RGBA, scale float64, family *fonts.Family) (*director.Scenario, error) {
	cfg := p.Config

	blocks, err := content.Load(cfg.ContentPath)
	if err != nil {
		return nil, err
	}
	ScalePositions(blocks, scale)
	if blocks, err = content.Usable(blocks, p.log); err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(cfg.InputPath), ".svg") {
		p.stampTitles(base, scale, blocks, family)
	}

	dir := director.NewDirector(base.Bounds().Dx(), base.Bounds().Dy(), TimingFromConfig(cfg))
	if p.Detector != nil && missingPositions(blocks) {
		regions, err := p.Detector.Detect(base)
		if err != nil {
			p.log.Warn().Err(err).Msg("block detection failed, unpositioned blocks get no lens")
		}
		n := dir.AssignPositions(blocks, regions)
		p.log.Debug().Int("regions", len(regions)).Int("assigned", n).Msg("positions from detector")
	}

	narrations, err := p.Narrator.Resolve(ctx, blocks)
	if err != nil {
		return nil, err
	}

	scenario, err := dir.Plan(blocks, narrations, cfg.InputPath)
	if err != nil {
		return nil, err
	}
	if cfg.CTA.URL != "" {
		dir.Outro(scenario, cfg.CTA.URL, cfg.CTA.Caption, cfg.CTA.Duration)
	}
	return scenario, nil
}

// Run renders the whole video.
func (p *VideoProject) Run(ctx context.Context) error {
	stats := Stats{Start: time.Now()}

	var err error
	p.tempDir, err = os.MkdirTemp("", "info2video_"+p.shortRunID()+"_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(p.tempDir)

	plan, err := p.Prepare(ctx)
	if err != nil {
		return err
	}
	stats.Planned = time.Now()

	scenes, err := BuildScenes(plan.Scenario, plan.Kit)
	if err != nil {
		return err
	}
	stats.Scenes = len(scenes)

	segments, err := p.encodeSegments(ctx, scenes)
	if err != nil {
		return err
	}
	stats.Encoded = time.Now()

	cp := concatParams(scenes, p.Config)
	if cp.Fade != p.Config.Video.FadeDuration && cp.Crossfades(len(scenes)) {
		p.log.Warn().Float64("fade", cp.Fade).Msg("transition shortened to fit the shortest scene")
	}
	if err := p.Encoder.Concatenate(ctx, segments, p.Config.OutputVideo, p.tempDir, cp); err != nil {
		return fmt.Errorf("assemble video: %w", err)
	}
	stats.Done = time.Now()

	for _, d := range cp.Durations {
		stats.VideoSeconds += d
	}
	if cp.Crossfades(len(scenes)) {
		stats.VideoSeconds -= float64(len(scenes)-1) * cp.Fade
	}
	stats.Frames = TotalFrames(cp.Durations, p.Config.Video.FPS)

	p.log.Info().
		Str("output", p.Config.OutputVideo).
		Int("scenes", stats.Scenes).
		Float64("seconds", stats.VideoSeconds).
		Dur("elapsed", stats.Done.Sub(stats.Start)).
		Msg("video ready")

	if p.Config.ShowStats {
		p.report(stats)
	}
	return nil
}

func (p *VideoProject) encodeSegments(ctx context.Context, scenes []*effects.Scene) ([]string, error) {
	cfg := p.Config
	paths := make([]string, len(scenes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))
	for i, sc := range scenes {
		g.Go(func() error {
			path := filepath.Join(p.tempDir, fmt.Sprintf("s%03d.mp4", i))
			params := config.SegmentParams{
				Width:      cfg.Video.Width,
				Height:     cfg.Video.Height,
				FPS:        cfg.Video.FPS,
				Duration:   sc.Length,
				AudioPath:  sc.Audio,
				AudioDelay: sc.AudioDelay,
				Encoder:    cfg.Video.Encoder,
				Quality:    cfg.Video.Quality,
				Index:      i,
			}
			if err := p.Encoder.EncodeSegment(gctx, sc, path, params); err != nil {
				return fmt.Errorf("scene %d: %w", sc.ID, err)
			}
			paths[i] = path
			p.log.Info().Int("scene", sc.ID).Int("of", len(scenes)).Msg("scene encoded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (p *VideoProject) shortRunID() string {
	if len(p.RunID) > 8 {
		return p.RunID[:8]
	}
	return p.RunID
}

func (p *VideoProject) loadCartoon() *gif.GIF {
	path := p.Config.Assets.Cartoon
	if path == "" {
		return nil
	}
	g, err := effects.LoadGIF(path)
	if err != nil {
		p.log.Warn().Err(err).Str("asset", "cartoon").Msg("asset unavailable, continuing without it")
		return nil
	}
	return g
}

// stampTitles writes block titles into the header placeholders of an
// extracted SVG, in block order.
func (p *VideoProject) stampTitles(base *image.RGBA, scale float64, blocks []content.Block, family *fonts.Family) {
	slots, err := svgtext.ReadSlots(p.Config.InputPath)
	if err != nil {
		p.log.Warn().Err(err).Msg("cannot read header placeholders")
		return
	}
	for i, id := range p.Config.Assets.HeaderSlots {
		if i >= len(blocks) {
			break
		}
		r, ok := slots[id]
		if !ok {
			continue
		}
		effects.StampText(base, ScaleRect(r, scale), blocks[i].Title, family, TitleInk)
	}
}

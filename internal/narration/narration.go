// Package narration finds, synthesizes and measures the per-block voice
// tracks that set each scene's dialogue length.
package narration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/info2video/internal/config"
	"github.com/ivlev/info2video/internal/content"
	"github.com/ivlev/info2video/internal/director"
)

var ErrAudioMissing = errors.New("narration audio missing")

type Mode string

const (
	ModeNone     Mode = "none"     // fixed dialogue length, silent scenes
	ModeOptional Mode = "optional" // use audio when present
	ModeRequired Mode = "required" // missing audio is fatal
)

// Extensions searched for block audio, in order.
var Extensions = []string{".wav", ".mp3", ".m4a"}

// ProbeFunc returns the length of an audio file in seconds.
type ProbeFunc func(path string) (float64, error)

// Resolver turns content blocks into narration lengths and audio paths.
type Resolver struct {
	Mode     Mode
	Dir      string
	Default  float64
	TTS      []string // command template with {text} and {out}
	Parallel int
	Probe    ProbeFunc
	log      zerolog.Logger
}

func NewResolver(cfg config.NarrationConfig, log zerolog.Logger) (*Resolver, error) {
	mode := Mode(strings.ToLower(cfg.Mode))
	switch mode {
	case ModeNone, ModeOptional, ModeRequired:
	case "":
		mode = ModeOptional
	default:
		return nil, fmt.Errorf("unknown narration mode %q", cfg.Mode)
	}
	return &Resolver{
		Mode:     mode,
		Dir:      cfg.Dir,
		Default:  cfg.DefaultDuration,
		TTS:      cfg.TTSCommand,
		Parallel: max(1, cfg.Parallel),
		Probe:    ProbeDuration,
		log:      log.With().Str("component", "narration").Logger(),
	}, nil
}

// AudioPath is the expected file stem for a block: <dir>/block<N>, N from 1.
func (r *Resolver) AudioPath(b content.Block) string {
	return filepath.Join(r.Dir, "block"+strconv.Itoa(b.Index+1))
}

// Find returns the first existing audio file for b, or "".
func (r *Resolver) Find(b content.Block) string {
	stem := r.AudioPath(b)
	for _, ext := range Extensions {
		if fi, err := os.Stat(stem + ext); err == nil && !fi.IsDir() {
			return stem + ext
		}
	}
	return ""
}

// Resolve returns one narration per block, in block order. Blocks are
// handled concurrently, at most Parallel at a time.
func (r *Resolver) Resolve(ctx context.Context, blocks []content.Block) ([]director.Narration, error) {
	out := make([]director.Narration, len(blocks))
	if r.Mode == ModeNone {
		for i := range out {
			out[i] = director.Narration{Seconds: r.Default}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Parallel)
	for i, b := range blocks {
		g.Go(func() error {
			n, err := r.resolve(gctx, b)
			if err != nil {
				return fmt.Errorf("block %d %q: %w", b.Index+1, b.Title, err)
			}
			out[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resolver) resolve(ctx context.Context, b content.Block) (director.Narration, error) {
	path := r.Find(b)
	if path == "" && len(r.TTS) > 0 {
		synth, err := r.Synthesize(ctx, b.Narration(), r.AudioPath(b)+Extensions[1])
		if err != nil {
			r.log.Warn().Err(err).Int("block", b.Index+1).Msg("speech synthesis failed")
		} else {
			path = synth
		}
	}

	if path == "" {
		if r.Mode == ModeRequired {
			return director.Narration{}, fmt.Errorf("%s.*: %w", r.AudioPath(b), ErrAudioMissing)
		}
		r.log.Warn().Int("block", b.Index+1).Float64("seconds", r.Default).Msg("no narration audio, using default length")
		return director.Narration{Seconds: r.Default}, nil
	}

	secs, err := r.Probe(path)
	if err == nil && secs <= 0 {
		err = fmt.Errorf("zero length")
	}
	if err != nil {
		if r.Mode == ModeRequired {
			return director.Narration{}, fmt.Errorf("probe %s: %w", path, err)
		}
		r.log.Warn().Err(err).Str("audio", path).Msg("unreadable narration audio, using default length")
		return director.Narration{Seconds: r.Default}, nil
	}

	r.log.Debug().Str("audio", path).Float64("seconds", secs).Msg("narration")
	return director.Narration{Seconds: secs, Audio: path}, nil
}

// Synthesize runs the TTS command template for text, writing out.
func (r *Resolver) Synthesize(ctx context.Context, text, out string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}
	args := make([]string, len(r.TTS))
	for i, a := range r.TTS {
		a = strings.ReplaceAll(a, "{text}", text)
		args[i] = strings.ReplaceAll(a, "{out}", out)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("tts produced no file: %w", err)
	}
	r.log.Info().Str("audio", out).Msg("speech synthesized")
	return out, nil
}

// ProbeDuration asks ffprobe for the container duration.
func ProbeDuration(path string) (float64, error) {
	probe, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "probe %s", path)
	}
	return ParseProbeDuration([]byte(probe))
}

// ParseProbeDuration reads format.duration, falling back to the longest
// stream duration.
func ParseProbeDuration(data []byte) (float64, error) {
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
		Streams []struct {
			Duration string `json:"duration"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, pkgerrors.WithStack(err)
	}

	if d, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64); err == nil && d > 0 {
		return d, nil
	}
	best := 0.0
	for _, s := range probe.Streams {
		if d, err := strconv.ParseFloat(strings.TrimSpace(s.Duration), 64); err == nil {
			best = max(best, d)
		}
	}
	if best <= 0 {
		return 0, pkgerrors.New("no duration in probe output")
	}
	return best, nil
}

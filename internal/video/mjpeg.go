package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/icza/mjpeg"
	"github.com/rs/zerolog"

	"github.com/ivlev/info2video/internal/config"
)

// MJPEGEncoder needs no external binary. Segments are stored as JPEG
// sequences and joined into a single silent Motion JPEG AVI with hard
// cuts.
type MJPEGEncoder struct {
	Quality int // JPEG quality 1..100
	log     zerolog.Logger
}

func NewMJPEGEncoder(log zerolog.Logger) *MJPEGEncoder {
	return &MJPEGEncoder{Quality: 90, log: log.With().Str("component", "mjpeg").Logger()}
}

// AVIPath swaps the extension of path for .avi.
func AVIPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".avi") {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".avi"
}

func frameDir(segmentPath string) string { return segmentPath + ".frames" }

func (e *MJPEGEncoder) EncodeSegment(ctx context.Context, src FrameSource, videoPath string, params config.SegmentParams) error {
	dir := frameDir(videoPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	i := 0
	var buf bytes.Buffer
	return renderFrames(ctx, src, params.FPS, func(frame *image.RGBA) error {
		buf.Reset()
		if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: e.Quality}); err != nil {
			return err
		}
		i++
		return os.WriteFile(filepath.Join(dir, fmt.Sprintf("%06d.jpg", i)), buf.Bytes(), 0o644)
	})
}

func (e *MJPEGEncoder) Concatenate(ctx context.Context, segmentPaths []string, finalPath string, _ string, params config.ConcatParams) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("no segments to join")
	}
	finalPath = AVIPath(finalPath)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return err
	}

	first, err := segmentFrames(segmentPaths[0])
	if err != nil || len(first) == 0 {
		return fmt.Errorf("segment 0 has no frames: %v", err)
	}
	size, err := jpegSize(first[0])
	if err != nil {
		return err
	}

	aw, err := mjpeg.New(finalPath, int32(size.X), int32(size.Y), int32(max(1, params.FPS)))
	if err != nil {
		return fmt.Errorf("create avi: %w", err)
	}

	for _, seg := range segmentPaths {
		frames, err := segmentFrames(seg)
		if err != nil {
			aw.Close()
			return err
		}
		for _, f := range frames {
			if err := ctx.Err(); err != nil {
				aw.Close()
				return err
			}
			data, err := os.ReadFile(f)
			if err != nil {
				aw.Close()
				return err
			}
			if err := aw.AddFrame(data); err != nil {
				aw.Close()
				return fmt.Errorf("add frame: %w", err)
			}
		}
	}
	if err := aw.Close(); err != nil {
		return err
	}
	e.log.Warn().Str("output", finalPath).Msg("ffmpeg unavailable: wrote silent MJPEG AVI without transitions")
	return nil
}

func segmentFrames(segmentPath string) ([]string, error) {
	frames, err := filepath.Glob(filepath.Join(frameDir(segmentPath), "*.jpg"))
	if err != nil {
		return nil, err
	}
	sort.Strings(frames)
	return frames, nil
}

func jpegSize(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, err
	}
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

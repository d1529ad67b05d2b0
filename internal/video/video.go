// Package video streams rendered scenes into encoded segments and joins
// them into the final file.
package video

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ivlev/info2video/internal/config"
	"github.com/ivlev/info2video/internal/system"
)

var ErrFFmpegNotFound = errors.New("ffmpeg not found in PATH")

// FrameSource renders any moment of a scene into a buffer of FrameSize.
type FrameSource interface {
	FrameSize() image.Point
	Duration() float64
	RenderFrame(dst *image.RGBA, t float64)
}

type VideoEncoder interface {
	EncodeSegment(ctx context.Context, src FrameSource, videoPath string, params config.SegmentParams) error
	Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, params config.ConcatParams) error
}

// FrameCount is the number of frames covering duration at fps.
func FrameCount(duration float64, fps int) int {
	return max(1, int(math.Round(duration*float64(fps))))
}

// renderFrames calls emit for every frame of src with a pooled buffer that
// is only valid during the call.
func renderFrames(ctx context.Context, src FrameSource, fps int, emit func(*image.RGBA) error) error {
	size := src.FrameSize()
	buf := system.GetImage(image.Rect(0, 0, size.X, size.Y))
	defer system.PutImage(buf)

	n := FrameCount(src.Duration(), fps)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		src.RenderFrame(buf, float64(i)/float64(fps))
		if err := emit(buf); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

type FFmpegEncoder struct {
	Binary string
	log    zerolog.Logger
}

// NewFFmpegEncoder fails with ErrFFmpegNotFound when ffmpeg is missing.
func NewFFmpegEncoder(log zerolog.Logger) (*FFmpegEncoder, error) {
	bin, err := system.CheckFFmpeg()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFFmpegNotFound, err)
	}
	return &FFmpegEncoder{Binary: bin, log: log.With().Str("component", "ffmpeg").Logger()}, nil
}

// EncodeSegment pipes raw RGBA frames into ffmpeg, muxing the narration
// (delayed to the dialogue start) or silence.
func (e *FFmpegEncoder) EncodeSegment(ctx context.Context, src FrameSource, videoPath string, params config.SegmentParams) error {
	args := SegmentArgs(src.FrameSize(), videoPath, params)

	cmd := exec.CommandContext(ctx, e.Binary, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start: %w", err)
	}

	w := bufio.NewWriterSize(stdin, 1<<20)
	werr := renderFrames(ctx, src, params.FPS, func(frame *image.RGBA) error {
		return writeRawRGBA(w, frame)
	})
	if werr == nil {
		werr = w.Flush()
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg segment %d: %w\n%s", params.Index, err, tail(out.Bytes()))
	}
	if werr != nil {
		return fmt.Errorf("stream segment %d: %w", params.Index, werr)
	}
	e.log.Debug().Int("segment", params.Index).Str("path", videoPath).Msg("segment encoded")
	return nil
}

func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	b := img.Bounds()
	if img.Stride == b.Dx()*4 {
		_, err := w.Write(img.Pix[:b.Dy()*img.Stride])
		return err
	}
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Concatenate joins the segments: stream copy through the concat demuxer
// for hard cuts, otherwise an xfade/acrossfade chain.
func (e *FFmpegEncoder) Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, params config.ConcatParams) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("no segments to join")
	}
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return err
	}

	var args []string
	if !params.Crossfades(len(segmentPaths)) {
		listPath := filepath.Join(tmpDir, "inputs.txt")
		if err := writeConcatList(listPath, segmentPaths); err != nil {
			return err
		}
		args = []string{"-y", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", finalPath}
	} else {
		args = XfadeArgs(segmentPaths, finalPath, params)
	}

	cmd := exec.CommandContext(ctx, e.Binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat: %w\n%s", err, tail(out))
	}
	e.log.Info().Int("segments", len(segmentPaths)).Str("output", finalPath).Msg("video assembled")
	return nil
}

func writeConcatList(path string, segments []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, p := range segments {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", abs); err != nil {
			return err
		}
	}
	return nil
}

// tail keeps the end of ffmpeg's log, where the error is.
func tail(out []byte) string {
	const keep = 2000
	if len(out) > keep {
		out = out[len(out)-keep:]
	}
	return string(out)
}

package video

import (
	"fmt"
	"image"
	"strings"

	"github.com/ivlev/info2video/internal/config"
)

const (
	sampleRate = 44100
	audioCodec = "aac"
)

// ResolveEncoder replaces an "auto" (or empty) encoder with detect() and
// a zero quality with the encoder's usual default.
func ResolveEncoder(encoder string, quality int, detect func() string) (string, int) {
	if encoder == "" || encoder == "auto" {
		encoder = detect()
	}
	if quality <= 0 {
		quality = DefaultQuality(encoder)
	}
	return encoder, quality
}

// DefaultQuality is the quality used when none is configured.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	}
	return 23
}

// QualityArgs maps the quality knob onto each encoder's own setting.
func QualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// No constant-quality mode; quality*100 kbit/s.
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default:
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

// ScaleFilter letterboxes a frame into the output size, or "" when the
// sizes already match or no output size is set.
func ScaleFilter(frame image.Point, width, height int) string {
	if width <= 0 || height <= 0 || (frame.X == width && frame.Y == height) {
		return ""
	}
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		width, height, width, height)
}

// SegmentArgs builds the ffmpeg command line for one scene: raw RGBA on
// stdin as input 0, narration or generated silence as input 1.
func SegmentArgs(frame image.Point, videoPath string, p config.SegmentParams) []string {
	dur := fmt.Sprintf("%.3f", p.Duration)
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", frame.X, frame.Y),
		"-framerate", fmt.Sprintf("%d", p.FPS),
		"-i", "-",
	}

	if p.AudioPath != "" {
		args = append(args, "-i", p.AudioPath)
	} else {
		args = append(args, "-f", "lavfi", "-t", dur, "-i",
			fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d", sampleRate))
	}

	if vf := ScaleFilter(frame, p.Width, p.Height); vf != "" {
		args = append(args, "-vf", vf)
	}
	if p.AudioPath != "" {
		af := "apad"
		if p.AudioDelay > 0 {
			af = fmt.Sprintf("adelay=%d:all=1,apad", int(p.AudioDelay*1000+0.5))
		}
		args = append(args, "-af", af)
	}

	args = append(args,
		"-map", "0:v", "-map", "1:a",
		"-t", dur,
		"-r", fmt.Sprintf("%d", p.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", p.Encoder,
	)
	args = append(args, QualityArgs(p.Encoder, p.Quality)...)
	args = append(args, "-c:a", audioCodec, "-ar", fmt.Sprintf("%d", sampleRate), "-ac", "2", videoPath)
	return args
}

// XfadeFilter chains xfade over the video streams and acrossfade over the
// audio streams. Offsets accumulate segment lengths minus the overlaps, so
// the output lasts sum(durations) - (n-1)*fade.
func XfadeFilter(durations []float64, transition string, fade float64) (graph, vout, aout string) {
	var parts []string
	vout, aout = "[0:v]", "[0:a]"
	offset := 0.0
	for i := 1; i < len(durations); i++ {
		offset += durations[i-1] - fade
		v, a := fmt.Sprintf("[v%d]", i), fmt.Sprintf("[a%d]", i)
		parts = append(parts,
			fmt.Sprintf("%s[%d:v]xfade=transition=%s:duration=%.3f:offset=%.3f%s", vout, i, transition, fade, offset, v),
			fmt.Sprintf("%s[%d:a]acrossfade=d=%.3f%s", aout, i, fade, a),
		)
		vout, aout = v, a
	}
	return strings.Join(parts, ";"), vout, aout
}

func XfadeArgs(segments []string, finalPath string, p config.ConcatParams) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for _, s := range segments {
		args = append(args, "-i", s)
	}
	graph, vout, aout := XfadeFilter(p.Durations, p.Transition, p.Fade)
	args = append(args,
		"-filter_complex", graph,
		"-map", vout, "-map", aout,
		"-c:v", p.Encoder, "-pix_fmt", "yuv420p",
	)
	if p.FPS > 0 {
		args = append(args, "-r", fmt.Sprintf("%d", p.FPS))
	}
	args = append(args, QualityArgs(p.Encoder, p.Quality)...)
	args = append(args, "-c:a", audioCodec, finalPath)
	return args
}

package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/info2video/internal/system"
	"github.com/ivlev/info2video/internal/video"
)

const benchmarkLog = "benchmark.log"

// Stats are the phase timestamps of one run.
type Stats struct {
	Start, Planned, Encoded, Done time.Time

	Scenes       int
	Frames       int
	VideoSeconds float64
}

// TotalFrames is the number of frames rendered for the given scene lengths.
func TotalFrames(durations []float64, fps int) int {
	n := 0
	for _, d := range durations {
		n += video.FrameCount(d, fps)
	}
	return n
}

// FPS is the effective render speed in frames per wall-clock second.
func (s Stats) FPS() float64 {
	total := s.Done.Sub(s.Start).Seconds()
	if total <= 0 {
		return 0
	}
	return float64(s.Frames) / total
}

func (p *VideoProject) report(s Stats) {
	host := system.CollectHostStats()
	total := s.Done.Sub(s.Start)

	fmt.Printf("--- [PERFORMANCE REPORT] ---\n"+
		"Build: %s\n"+
		"Total Time: %.2fs\n"+
		"Planning: %.2fs\n"+
		"Render+Encode: %.2fs\n"+
		"Concatenation: %.2fs\n"+
		"Effective FPS: %.2f\n"+
		"Host: %s\n"+
		"----------------------------\n",
		p.Config.BuildVersion,
		total.Seconds(),
		s.Planned.Sub(s.Start).Seconds(),
		s.Encoded.Sub(s.Planned).Seconds(),
		s.Done.Sub(s.Encoded).Seconds(),
		s.FPS(),
		host,
	)

	entry := fmt.Sprintf("[%s] Build: %s | Run: %s | Input: %s | Scenes: %d | Video: %.2fs | Total: %.2fs | FPS: %.2f | %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		p.RunID,
		filepath.Base(p.Config.InputPath),
		s.Scenes,
		s.VideoSeconds,
		total.Seconds(),
		s.FPS(),
		host,
	)

	f, err := os.OpenFile(benchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		p.log.Warn().Err(err).Msg("cannot write benchmark.log")
		return
	}
	defer f.Close()
	if _, err := f.WriteString(entry); err != nil {
		p.log.Warn().Err(err).Msg("cannot write benchmark.log")
	}
}

package engine

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ivlev/info2video/internal/config"
	"github.com/ivlev/info2video/internal/content"
	"github.com/ivlev/info2video/internal/director"
	"github.com/ivlev/info2video/internal/effects"
	"github.com/ivlev/info2video/internal/fonts"
	"github.com/ivlev/info2video/internal/source"
	"github.com/ivlev/info2video/internal/video"
)

func TestAlignDuration(t *testing.T) {
	cases := []struct {
		d    float64
		fps  int
		want float64
	}{
		{2.0, 24, 2.0},
		{1.01, 10, 1.0},
		{1.06, 10, 1.1},
		{0.001, 24, 1.0 / 24},
	}
	for _, c := range cases {
		got := AlignDuration(c.d, c.fps)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("AlignDuration(%v, %d) = %v, want %v", c.d, c.fps, got, c.want)
		}
		if frames := got * float64(c.fps); math.Abs(frames-math.Round(frames)) > 1e-9 {
			t.Errorf("AlignDuration(%v, %d) = %v is not a whole number of frames", c.d, c.fps, got)
		}
	}
}

func TestClampFade(t *testing.T) {
	if got := ClampFade(0.5, []float64{4, 3, 5}); got != 0.5 {
		t.Errorf("fade that fits changed to %v", got)
	}
	if got := ClampFade(2, []float64{4, 1, 5}); got != 0.5 {
		t.Errorf("fade longer than the shortest scene: got %v, want 0.5", got)
	}
	if got := ClampFade(2, []float64{1}); got != 2 {
		t.Errorf("single scene fade changed to %v", got)
	}

	// The video length sum(D) - (N-1)*F stays positive after clamping.
	durations := []float64{0.4, 0.4, 0.4}
	fade := ClampFade(1, durations)
	total := -float64(len(durations)-1) * fade
	for _, d := range durations {
		total += d
	}
	if total <= 0 {
		t.Errorf("video length %v after clamping fade to %v", total, fade)
	}
}

func TestTimingFromConfig(t *testing.T) {
	cfg := config.Default()
	tm := TimingFromConfig(cfg)
	if tm.Tail != cfg.Video.FadeDuration {
		t.Errorf("Tail = %v, want fade %v", tm.Tail, cfg.Video.FadeDuration)
	}
	if tm.Pulse != cfg.Lens.PulseDuration || tm.HighlightUp != cfg.Highlight.Lift {
		t.Errorf("timing not copied from config: %+v", tm)
	}
	if tm.LensStart.X != cfg.Lens.StartX || tm.LensStart.Y != cfg.Lens.StartY {
		t.Errorf("LensStart = %+v", tm.LensStart)
	}

	cfg.Video.Transition = "none"
	if tm := TimingFromConfig(cfg); tm.Tail != 0 {
		t.Errorf("hard cuts need no tail, got %v", tm.Tail)
	}
}

func TestScalePositions(t *testing.T) {
	orig := &content.Position{X: 10, Y: 20, Width: 30, Height: 40}
	blocks := []content.Block{{Title: "a", Position: orig}, {Title: "b"}}
	ScalePositions(blocks, 2)

	want := content.Position{X: 20, Y: 40, Width: 60, Height: 80}
	if *blocks[0].Position != want {
		t.Errorf("scaled position = %+v, want %+v", *blocks[0].Position, want)
	}
	if orig.X != 10 {
		t.Error("ScalePositions modified the caller's position")
	}
	if blocks[1].Position != nil {
		t.Error("missing position should stay missing")
	}

	if r := ScaleRect(image.Rect(1, 1, 3, 3), 1.5); r != image.Rect(1, 1, 5, 5) {
		t.Errorf("ScaleRect = %v", r)
	}
}

func testKit(t *testing.T, cfg *config.Config) effects.Kit {
	t.Helper()
	base := image.NewRGBA(image.Rect(0, 0, 320, 180))
	for y := 0; y < 180; y++ {
		for x := 0; x < 320; x++ {
			base.Set(x, y, color.RGBA{uint8(x * 255 / 320), uint8(y * 255 / 180), 128, 255})
		}
	}
	return effects.Kit{Base: base, Family: fonts.Load("", zerolog.Nop()), Config: cfg}
}

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Video.FPS = 4
	cfg.Lens.Size = 60
	cfg.Lens.PulseDuration = 0.5
	cfg.Text.BlurSigma = 2
	cfg.Narration.Mode = "none"
	cfg.Narration.DefaultDuration = 1
	cfg.Detector.Variant = "none"
	cfg.Workers = 2
	return cfg
}

func TestBuildScenes(t *testing.T) {
	cfg := smallConfig()
	kit := testKit(t, cfg)

	d := director.NewDirector(320, 180, TimingFromConfig(cfg))
	blocks := []content.Block{
		{Title: "Plan", Points: []string{"Define goals"}, Position: &content.Position{X: 40, Y: 40, Width: 80, Height: 40}},
		{Title: "Build", Points: []string{"Ship it"}, Index: 1},
	}
	sc, err := d.Plan(blocks, []director.Narration{{Seconds: 1.03}, {Seconds: 1}}, "test.png")
	if err != nil {
		t.Fatal(err)
	}
	d.Outro(sc, "https://example.com", "Scan me", 1)

	scenes, err := BuildScenes(sc, kit)
	if err != nil {
		t.Fatal(err)
	}
	if len(scenes) != 3 {
		t.Fatalf("got %d scenes, want 3", len(scenes))
	}
	for i, s := range scenes {
		if s.Size != image.Pt(320, 180) {
			t.Errorf("scene %d size %v", i, s.Size)
		}
		if frames := s.Length * 4; math.Abs(frames-math.Round(frames)) > 1e-9 {
			t.Errorf("scene %d length %v is not frame aligned", i, s.Length)
		}
		if s.AudioDelay != sc.Scenes[i].DialogueStart {
			t.Errorf("scene %d audio delay %v, want %v", i, s.AudioDelay, sc.Scenes[i].DialogueStart)
		}
	}

	frame := image.NewRGBA(image.Rect(0, 0, 320, 180))
	scenes[0].RenderFrame(frame, scenes[0].Length-0.01)
	if frame.RGBAAt(0, 0).A != 255 {
		t.Error("rendered frame is not opaque")
	}

	if _, err := BuildScenes(&director.Scenario{}, kit); err == nil {
		t.Error("empty scenario should fail")
	}
}

func TestRunMJPEG(t *testing.T) {
	dir := t.TempDir()

	input := filepath.Join(dir, "info.png")
	f, err := os.Create(input)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, testKit(t, config.Default()).Base); err != nil {
		t.Fatal(err)
	}
	f.Close()

	contentPath := filepath.Join(dir, "content.json")
	if err := content.Save(contentPath, []content.Block{
		{Title: "Plan", Points: []string{"Define goals"}, Position: &content.Position{X: 40, Y: 40, Width: 80, Height: 40}},
		{Title: "Skipped"},
		{Title: "Build", Points: []string{"Ship it"}},
	}); err != nil {
		t.Fatal(err)
	}

	cfg := smallConfig()
	cfg.InputPath = input
	cfg.ContentPath = contentPath
	cfg.OutputVideo = filepath.Join(dir, "out", "video.avi")
	cfg.ScenarioOutput = filepath.Join(dir, "scenario.yaml")

	src, err := source.Open(input)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	project, err := NewVideoProject(cfg, src, video.NewMJPEGEncoder(zerolog.Nop()), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := project.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if fi, err := os.Stat(cfg.OutputVideo); err != nil || fi.Size() == 0 {
		t.Fatalf("no video written: %v", err)
	}
	sc, err := director.ReadScenario(cfg.ScenarioOutput)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Scenes) != 2 {
		t.Errorf("scenario has %d scenes, want 2 (invalid block skipped)", len(sc.Scenes))
	}
	if sc.Scenes[0].Lens == nil {
		t.Error("positioned block should get a lens")
	}
}

func TestPrepareFromScenario(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig()

	sc := &director.Scenario{Version: "1.0", Canvas: director.Size{W: 320, H: 180}, Scenes: []director.Scene{{
		ID: 1, Kind: director.KindBlock, Title: "Plan", Points: []string{"Define goals"},
		Narration: 1, Duration: 2, DialogueStart: 1, Typing: 0.5,
	}}}
	path := filepath.Join(dir, "scenario.yaml")
	if err := director.WriteScenario(sc, path); err != nil {
		t.Fatal(err)
	}
	cfg.ScenarioInput = path

	input := filepath.Join(dir, "info.png")
	f, err := os.Create(input)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, testKit(t, cfg).Base); err != nil {
		t.Fatal(err)
	}
	f.Close()
	cfg.InputPath = input

	src, err := source.Open(input)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	project, err := NewVideoProject(cfg, src, video.NewMJPEGEncoder(zerolog.Nop()), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	plan, err := project.Prepare(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Scenario.Scenes) != 1 || plan.Scenario.Scenes[0].Title != "Plan" {
		t.Errorf("scenario not taken from file: %+v", plan.Scenario.Scenes)
	}
}

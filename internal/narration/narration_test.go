package narration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ivlev/info2video/internal/config"
	"github.com/ivlev/info2video/internal/content"
)

func testBlocks() []content.Block {
	return []content.Block{
		{Title: "Plan", Points: []string{"Define goals"}, Index: 0},
		{Title: "Build", Points: []string{"Ship"}, Index: 1},
		{Title: "Grow", Points: []string{"Measure"}, Index: 2},
	}
}

func newResolver(t *testing.T, mode string) (*Resolver, string) {
	t.Helper()
	dir := t.TempDir()
	r, err := NewResolver(config.NarrationConfig{Mode: mode, Dir: dir, DefaultDuration: 4, Parallel: 2}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	r.Probe = func(path string) (float64, error) {
		if filepath.Ext(path) == ".mp3" {
			return 6.5, nil
		}
		return 3.25, nil
	}
	return r, dir
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveOptional(t *testing.T) {
	r, dir := newResolver(t, "optional")
	touch(t, filepath.Join(dir, "block1.wav"))
	touch(t, filepath.Join(dir, "block3.mp3"))

	got, err := r.Resolve(context.Background(), testBlocks())
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		secs  float64
		audio string
	}{
		{3.25, filepath.Join(dir, "block1.wav")},
		{4, ""},
		{6.5, filepath.Join(dir, "block3.mp3")},
	}
	for i, w := range want {
		if got[i].Seconds != w.secs || got[i].Audio != w.audio {
			t.Errorf("block %d = %+v, want %+v", i+1, got[i], w)
		}
	}
}

func TestResolveRequired(t *testing.T) {
	r, dir := newResolver(t, "required")
	touch(t, filepath.Join(dir, "block1.wav"))

	_, err := r.Resolve(context.Background(), testBlocks())
	if !errors.Is(err, ErrAudioMissing) {
		t.Fatalf("got %v, want ErrAudioMissing", err)
	}
}

func TestResolveNone(t *testing.T) {
	r, dir := newResolver(t, "none")
	touch(t, filepath.Join(dir, "block1.wav"))

	got, err := r.Resolve(context.Background(), testBlocks())
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range got {
		if n.Seconds != 4 || n.Audio != "" {
			t.Errorf("block %d = %+v", i+1, n)
		}
	}
}

func TestResolveUnreadableAudio(t *testing.T) {
	r, dir := newResolver(t, "optional")
	touch(t, filepath.Join(dir, "block1.m4a"))
	r.Probe = func(string) (float64, error) { return 0, errors.New("bad file") }

	got, err := r.Resolve(context.Background(), testBlocks()[:1])
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Seconds != 4 || got[0].Audio != "" {
		t.Errorf("got %+v, want default", got[0])
	}

	r.Mode = ModeRequired
	if _, err := r.Resolve(context.Background(), testBlocks()[:1]); err == nil {
		t.Error("required mode accepted unreadable audio")
	}
}

func TestNewResolverRejectsMode(t *testing.T) {
	if _, err := NewResolver(config.NarrationConfig{Mode: "sometimes"}, zerolog.Nop()); err == nil {
		t.Error("unknown mode accepted")
	}
	r, err := NewResolver(config.NarrationConfig{}, zerolog.Nop())
	if err != nil || r.Mode != ModeOptional || r.Parallel != 1 {
		t.Errorf("empty config = %+v, %v", r, err)
	}
}

func TestSynthesize(t *testing.T) {
	r, dir := newResolver(t, "required")
	r.TTS = []string{"sh", "-c", `printf '%s' "$0" > "$1"`, "{text}", "{out}"}

	got, err := r.Resolve(context.Background(), testBlocks()[:1])
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "block1.mp3")
	if got[0].Audio != out || got[0].Seconds != 6.5 {
		t.Errorf("got %+v", got[0])
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "Plan. Define goals." {
		t.Errorf("tts input = %q, %v", data, err)
	}
}

func TestParseProbeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
		ok   bool
	}{
		{"format", `{"format":{"duration":"12.345"}}`, 12.345, true},
		{"streams", `{"format":{},"streams":[{"duration":"3.5"},{"duration":"4.25"}]}`, 4.25, true},
		{"missing", `{"format":{}}`, 0, false},
		{"garbage", `not json`, 0, false},
	}
	for _, c := range cases {
		got, err := ParseProbeDuration([]byte(c.in))
		if (err == nil) != c.ok || got != c.want {
			t.Errorf("%s: got %v, %v", c.name, got, err)
		}
	}
}

// Package content loads the narration blocks that drive a video: a title,
// its bullet points and the anchor on the infographic.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ivlev/info2video/internal/layout"
)

var ErrNoBlocks = errors.New("content has no usable blocks")

type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Center of the anchor; a point anchor is its own center.
func (p Position) Center() (float64, float64) {
	return p.X + p.Width/2, p.Y + p.Height/2
}

func (p Position) HasArea() bool { return p.Width > 0 && p.Height > 0 }

type Block struct {
	Title    string    `json:"title"`
	Points   []string  `json:"points"`
	Position *Position `json:"position,omitempty"`

	// Index is the block's place in the source file, kept across skips so
	// narration files (block<N>) stay aligned.
	Index int `json:"-"`
}

// Load parses a JSON array of blocks. A missing or malformed file is fatal.
func Load(path string) ([]Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("parse content %s: %w", path, err)
	}
	for i := range blocks {
		blocks[i].Index = i
		blocks[i].Points = cleanPoints(blocks[i].Points)
		blocks[i].Title = oneLine(blocks[i].Title)
	}
	return blocks, nil
}

// Save writes blocks as indented JSON.
func Save(path string, blocks []Block) error {
	data, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports why a block cannot be rendered.
func (b Block) Validate() error {
	if len(b.Points) == 0 {
		return fmt.Errorf("block %d (%q) has no points", b.Index+1, b.Title)
	}
	if b.Position != nil && (b.Position.Width < 0 || b.Position.Height < 0) {
		return fmt.Errorf("block %d has a negative position size", b.Index+1)
	}
	return nil
}

// Usable drops invalid blocks with a warning each and fails only when
// nothing is left.
func Usable(blocks []Block, log zerolog.Logger) ([]Block, error) {
	var out []Block
	for _, b := range blocks {
		if err := b.Validate(); err != nil {
			log.Warn().Err(err).Msg("skipping block")
			continue
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, ErrNoBlocks
	}
	return out, nil
}

// Text is the typewriter stream: title, then one point per line.
func (b Block) Text() string {
	return layout.BlockText(b.Title, b.Points)
}

// Narration is the text handed to speech synthesis.
func (b Block) Narration() string {
	parts := make([]string, 0, len(b.Points)+1)
	if b.Title != "" {
		parts = append(parts, sentence(b.Title))
	}
	for _, p := range b.Points {
		parts = append(parts, sentence(p))
	}
	return strings.Join(parts, " ")
}

func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s[len(s)-1:], ".!?:") {
		return s
	}
	return s + "."
}

// oneLine collapses line breaks and runs of spaces: every point is a
// single paragraph of the typewriter stream.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cleanPoints(points []string) []string {
	out := points[:0]
	for _, p := range points {
		p = strings.TrimSpace(strings.TrimLeft(oneLine(p), "•-* "))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package render turns case frames into SVG board images on disk.
package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/chessvlm/rulebench/pkg/rulegen"
	"github.com/notnil/chess"
	"github.com/notnil/chess/image"
)

// highlightColor marks the squares a case draws attention to.
var highlightColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0x66, A: 0xFF}

// TimestampedDir creates and returns base_MMDD_HHMMSS so consecutive runs
// never overwrite each other's images.
func TimestampedDir(base string) (string, error) {
	dir := fmt.Sprintf("%s_%s", base, time.Now().Format("0102_150405"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return dir, nil
}

type SVGRenderer struct{}

func NewSVGRenderer() *SVGRenderer {
	return &SVGRenderer{}
}

// RenderCase writes one SVG per frame, named <case_id>_state_N.svg with N
// starting at 1, and records the paths on the case.
func (r *SVGRenderer) RenderCase(c *rulegen.Case, outputDir string) error {
	paths := make([]string, 0, len(c.States))
	for i, frame := range c.States {
		path := filepath.Join(outputDir, fmt.Sprintf("%s_state_%d.svg", c.CaseID, i+1))
		if err := renderFrame(frame, path); err != nil {
			return fmt.Errorf("render %s state %d: %w", c.CaseID, i+1, err)
		}
		paths = append(paths, path)
	}
	c.ImagePaths = paths
	return nil
}

func renderFrame(frame rulegen.Frame, path string) error {
	fenFunc, err := chess.FEN(frame.FEN())
	if err != nil {
		return err
	}
	game := chess.NewGame(fenFunc)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if len(frame.Highlighted) > 0 {
		marks := make([]chess.Square, 0, len(frame.Highlighted))
		for _, sq := range frame.Highlighted {
			marks = append(marks, chess.Square(sq.Rank()*8+sq.File()))
		}
		return image.SVG(f, game.Position().Board(), image.MarkSquares(highlightColor, marks...))
	}
	return image.SVG(f, game.Position().Board())
}

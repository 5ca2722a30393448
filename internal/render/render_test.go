package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chessvlm/rulebench/pkg/rulegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampedDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "bench")
	dir, err := TimestampedDir(base)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(dir), "bench_"))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRenderCase(t *testing.T) {
	outDir := t.TempDir()
	c := rulegen.Case{
		CaseID: "L1_rook_valid_1",
		States: []rulegen.Frame{
			rulegen.NewFrame(map[rulegen.Square]rulegen.Piece{"a1": "R"}, "a4"),
			rulegen.NewFrame(map[rulegen.Square]rulegen.Piece{"a4": "R"}),
		},
	}

	r := NewSVGRenderer()
	require.NoError(t, r.RenderCase(&c, outDir))

	require.Len(t, c.ImagePaths, 2)
	assert.Equal(t, filepath.Join(outDir, "L1_rook_valid_1_state_1.svg"), c.ImagePaths[0])
	assert.Equal(t, filepath.Join(outDir, "L1_rook_valid_1_state_2.svg"), c.ImagePaths[1])

	for _, path := range c.ImagePaths {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "<svg")
	}
}

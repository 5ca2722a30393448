// Package eval runs generated cases against a vision model and grades the
// responses. The harness asks a verification question (can the model read the
// boards at all) together with the rule question, and keeps the two outcomes
// separate in the statistics.
package eval

import (
	"context"

	"github.com/chessvlm/rulebench/pkg/rulegen"
)

// Answerer is the external model client. Any error is handled at the
// per-case boundary: the case scores as verification-failed and the batch
// continues.
type Answerer interface {
	Answer(ctx context.Context, prompt string, imagePaths []string) (string, error)
	ModelName() string
}

// Renderer turns a case's frames into image files and fills the case's
// ImagePaths. Rendering is deterministic for a given frame.
type Renderer interface {
	RenderCase(c *rulegen.Case, outputDir string) error
}

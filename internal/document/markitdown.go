// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paperwiz/internal/container"
	"github.com/pdiddy/paperwiz/pkg/types"
)

const imageMarkitdown = "markitdown:latest"

// Markitdown converts any format the markitdown image understands by piping
// the file through a container.
type Markitdown struct {
	runtime container.Runtime
	image   string
}

// NewMarkitdown verifies the image exists in rt before returning.
func NewMarkitdown(ctx context.Context, rt container.Runtime) (*Markitdown, error) {
	if err := rt.ImageExists(ctx, imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &Markitdown{runtime: rt, image: imageMarkitdown}, nil
}

// Extract pipes path through the container and returns its Markdown output.
func (m *Markitdown) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", types.ErrExtraction, filepath.Base(path), err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, m.image, f, &out); err != nil {
		return "", fmt.Errorf("%w: converting %s with markitdown: %v", types.ErrExtraction, filepath.Base(path), err)
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("%w: markitdown produced empty output for %s", types.ErrExtraction, filepath.Base(path))
	}
	return text, nil
}

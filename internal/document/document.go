// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document extracts plain text from user-supplied files so it can be
// appended to a search query. Every failure wraps types.ErrExtraction.
package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/paperwiz/internal/container"
	"github.com/pdiddy/paperwiz/pkg/types"
)

// Extractor turns a file into text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// New returns the extractor selected by cfg. The markitdown backend needs a
// working container runtime with the image present.
func New(ctx context.Context, cfg types.DocumentConfig) (Extractor, error) {
	switch cfg.Backend {
	case "", types.DocumentNative:
		return Native{}, nil
	case types.DocumentMarkitdown:
		rt, err := container.Detect(ctx, "")
		if err != nil {
			return nil, err
		}
		return NewMarkitdown(ctx, rt)
	default:
		return nil, fmt.Errorf("unknown document backend %q: use native or markitdown", cfg.Backend)
	}
}

// Native extracts text in-process. It supports .txt, .md, .docx and .pdf.
type Native struct{}

var extraneousWhitespace = regexp.MustCompile(`[ \t]+`)

// Extract reads path according to its extension.
func (Native) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(path))

	var (
		text string
		err  error
	)
	switch ext {
	case ".txt", ".md", ".markdown":
		text, err = readText(path)
	case ".docx":
		text, err = readDOCX(path)
	case ".pdf":
		text, err = readPDF(path)
	default:
		return "", fmt.Errorf("%w: unsupported file format %q", types.ErrExtraction, ext)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", types.ErrExtraction, filepath.Base(path), err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: no extractable text found in %s", types.ErrExtraction, filepath.Base(path))
	}
	return text, nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readPDF(path string) (text string, err error) {
	file, reader, err := pdf.Open(path)
	if file != nil {
		defer file.Close()
	}
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	// The pdf reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to extract pdf text: %v", r)
		}
	}()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	return extraneousWhitespace.ReplaceAllString(builder.String(), " "), nil
}

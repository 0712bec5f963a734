package docparse

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/freightctl/ftl-extractor/constants"
	"github.com/freightctl/ftl-extractor/internal/common"
)

// Payload is the parsed document content handed to the extraction stage:
// plain text, or a base64-encoded image for the vision turn.
type Payload struct {
	Content string
	Kind    constants.PayloadKind
}

// Parser is the document boundary: file on disk -> extraction payload.
// Unreadable or unsupported input is a hard failure for that document; the
// pipeline does not retry it.
type Parser interface {
	Parse(ctx context.Context, path string) (Payload, error)
}

// FileParser reads text files directly, encodes images for the vision
// model, and pulls page content out of PDFs with pdfcpu.
type FileParser struct {
	logger *slog.Logger
}

func NewFileParser(logger *slog.Logger) *FileParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileParser{logger: logger}
}

func (p *FileParser) Parse(ctx context.Context, path string) (Payload, error) {
	if _, err := os.Stat(path); err != nil {
		return Payload{}, fmt.Errorf("stat %s: %w", path, err)
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	switch {
	case ext == "pdf":
		return p.parsePDF(path)
	case contains(constants.TextExtensions, ext):
		return p.parseText(path)
	case contains(constants.ImageExtensions, ext):
		return p.parseImage(path)
	}
	return Payload{}, common.NewAppError("PARSE_ERROR", fmt.Sprintf("unsupported file format: .%s", ext), common.ErrUnsupported)
}

func (p *FileParser) parseText(path string) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("read text file: %w", err)
	}
	p.logger.Info("docparse.text", "path", path, "bytes", len(data))
	return Payload{Content: string(data), Kind: constants.PayloadText}, nil
}

func (p *FileParser) parseImage(path string) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("read image file: %w", err)
	}
	p.logger.Info("docparse.image", "path", path, "bytes", len(data))
	return Payload{Content: base64.StdEncoding.EncodeToString(data), Kind: constants.PayloadImage}, nil
}

// parsePDF extracts page content streams into a temp dir and concatenates
// whatever text pdfcpu recovered. Extraction quality is the upstream
// tooling's concern; the model copes with noisy text.
func (p *FileParser) parsePDF(path string) (Payload, error) {
	pages, err := api.PageCountFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("read pdf: %w", err)
	}

	outDir, err := os.MkdirTemp("", "ftl-pdf-")
	if err != nil {
		return Payload{}, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(path, outDir, nil, nil); err != nil {
		return Payload{}, fmt.Errorf("extract pdf content: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(outDir, "*.txt"))
	if err != nil {
		return Payload{}, fmt.Errorf("collect extracted pages: %w", err)
	}

	var content []byte
	for _, m := range matches {
		b, err := os.ReadFile(m)
		if err != nil {
			continue
		}
		content = append(content, b...)
		content = append(content, '\n')
	}

	p.logger.Info("docparse.pdf", "path", path, "pages", pages, "bytes", len(content))
	return Payload{Content: string(content), Kind: constants.PayloadText}, nil
}

func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

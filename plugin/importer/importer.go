// Package importer converts an uploaded document into an ordered sequence of
// question strings. Plain text and markdown are parsed locally; .docx goes
// through the Tika extraction client.
package importer

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/Mishleyn/T-Prep/plugin/markdown"
	"github.com/Mishleyn/T-Prep/plugin/textextract"
)

// ErrUnsupportedFormat is returned for file extensions the importer cannot parse.
var ErrUnsupportedFormat = errors.New("unsupported file format")

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Extractor extracts ordered paragraphs from a rich-text document.
type Extractor interface {
	ExtractParagraphs(ctx context.Context, data []byte, contentType string) ([]string, error)
}

// Importer parses uploaded files into question strings.
type Importer struct {
	extractor Extractor
}

// New creates an importer backed by the given document extractor.
func New(extractor Extractor) *Importer {
	return &Importer{extractor: extractor}
}

// Parse converts the uploaded file into an ordered list of question strings,
// dispatching on the file extension. Blank lines and paragraphs are dropped.
func (i *Importer) Parse(ctx context.Context, filename string, data []byte) ([]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return parsePlainText(data)
	case ".md":
		return markdown.ExtractBlocks(data), nil
	case ".docx":
		if i.extractor == nil {
			return nil, errors.New("no document extractor configured")
		}
		paragraphs, err := i.extractor.ExtractParagraphs(ctx, data, docxContentType)
		if err != nil {
			return nil, errors.Wrap(err, "failed to extract document text")
		}
		return paragraphs, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "file %q", filename)
	}
}

func parsePlainText(data []byte) ([]string, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("file is not valid UTF-8")
	}
	return textextract.SplitParagraphs(string(data)), nil
}

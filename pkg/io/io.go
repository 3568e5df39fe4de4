// Package io reads block documents and saved plans from disk or stdin.
//
// Documents come in two formats, chosen by file extension:
//
//   - .json: the editor wire format (see [block.Decode])
//   - .md, .markdown: Markdown with the authoring conventions of [block.FromMarkdown]
//
// The path "-" reads standard input as JSON unless a format is forced.
package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/blockplan/pkg/block"
	"github.com/matzehuels/blockplan/pkg/errors"
	"github.com/matzehuels/blockplan/pkg/plan"
)

// Format is a document source format.
type Format string

const (
	FormatAuto     Format = ""
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// DetectFormat infers a format from path. Unknown extensions and stdin are JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatJSON
	}
}

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q (want json or markdown)", s)
	}
}

// ReadSource returns the raw bytes at path, or standard input for [Stdin].
func ReadSource(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == Stdin {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// ImportDocument reads the document at path. FormatAuto detects from the
// extension.
func ImportDocument(path string, format Format) ([]block.Block, []byte, error) {
	data, err := ReadSource(path)
	if err != nil {
		return nil, nil, err
	}
	if format == FormatAuto {
		format = DetectFormat(path)
	}
	doc, err := ParseDocument(data, format)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, data, nil
}

// ParseDocument decodes data in the given format. FormatAuto means JSON.
func ParseDocument(data []byte, format Format) ([]block.Block, error) {
	var (
		doc []block.Block
		err error
	)
	switch format {
	case FormatMarkdown:
		doc, err = block.FromMarkdown(data)
	case FormatJSON, FormatAuto:
		doc, err = block.Unmarshal(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse %s document", formatName(format))
	}
	return doc, nil
}

// ImportPlan reads a plan saved as JSON, such as the output of
// "blockplan plan -f json".
func ImportPlan(path string) (*plan.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "plan %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return plan.Read(f)
}

func formatName(f Format) string {
	if f == FormatAuto {
		return string(FormatJSON)
	}
	return string(f)
}

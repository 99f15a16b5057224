// Package parser reads and writes the note header format: a YAML block
// between --- delimiters followed by a free-form markdown body.
package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/halvard/daybook/internal/models"
)

// Header is the structured metadata at the top of every note file.
// The event block is present only for event-linked notes; tags may be
// absent entirely and default to empty.
type Header struct {
	Title   string           `yaml:"title"`
	Created time.Time        `yaml:"created"`
	Updated time.Time        `yaml:"updated"`
	Tags    []string         `yaml:"tags"`
	Event   *models.EventRef `yaml:"event,omitempty"`
}

// Result holds the output of parsing a note file.
type Result struct {
	Header    Header
	Body      string
	HasHeader bool // false when the header was absent or malformed
}

// Parse splits data into header and body. A missing or malformed header
// is not an error: the whole file becomes the body and HasHeader is
// false, so a single corrupt file never aborts a listing.
func Parse(data []byte) *Result {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return &Result{Body: string(data)}
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter: treat everything as body.
		return &Result{Body: string(data)}
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var h Header
	if err := yaml.Unmarshal(yamlBlock, &h); err != nil {
		// Malformed YAML: fall back to raw-body interpretation.
		return &Result{Body: string(data)}
	}

	return &Result{Header: h, Body: body, HasHeader: true}
}

// Marshal renders a header and body back into note file content.
func Marshal(h Header, body string) ([]byte, error) {
	block, err := yaml.Marshal(&h)
	if err != nil {
		return nil, fmt.Errorf("parser: marshal header: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(block)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// DeriveTitle returns the header title if present, otherwise the first
// H1 heading of the body, otherwise empty string.
func DeriveTitle(r *Result) string {
	if r.HasHeader && r.Header.Title != "" {
		return r.Header.Title
	}
	for _, line := range strings.Split(r.Body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

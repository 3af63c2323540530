// Package frontmatter splits and decodes the YAML front matter block that
// prefixes Markdown content files.
package frontmatter

import (
	"bytes"
	"errors"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML front matter (`---` delimited) from the Markdown body.
//
// If the document does not start with a front matter delimiter, had is false
// and body is the full input. Both LF and CRLF documents are accepted.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[start:], closeLine) {
		return []byte{}, content[start+len(closeLine):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A document may end with the closing delimiter and no trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content[start:], tail) {
			return content[start : len(content)-len("---")], nil, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	fmEnd := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return content[start:fmEnd], content[bodyStart:], true, nil
}

// Fields holds the typed base fields a page's front matter may declare.
// Everything else stays in the raw map returned by Parse.
type Fields struct {
	Title       string    `yaml:"title"`
	Date        time.Time `yaml:"date"`
	Layout      string    `yaml:"layout"`
	Permalink   string    `yaml:"permalink"`
	Name        string    `yaml:"name"`
	Slug        string    `yaml:"slug"`
	Description string    `yaml:"description"`
	Image       string    `yaml:"image"`
	Tags        []string  `yaml:"tags"`
	Categories  []string  `yaml:"categories"`
	Tools       []string  `yaml:"tools"`
	Draft       bool      `yaml:"draft"`
	Weight      int       `yaml:"weight"`
}

// Parse decodes raw front matter (without --- delimiters) into both the typed
// base fields and the full key-value map templates see.
func Parse(frontmatter []byte) (Fields, map[string]any, error) {
	var fields Fields
	raw := map[string]any{}

	if len(frontmatter) == 0 {
		return fields, raw, nil
	}
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return Fields{}, nil, err
	}
	if err := yaml.Unmarshal(frontmatter, &raw); err != nil {
		return Fields{}, nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return fields, raw, nil
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}

package frontmatter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hire Me\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Hire Me\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\ntitle: Broken\n# Title\n")

	_, _, had, err := Split(input)
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\ntitle: Windows\r\n---\r\n# Title\r\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Windows\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock_HadWithEmptyFrontmatter(t *testing.T) {
	input := []byte("---\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF_EmptyBody(t *testing.T) {
	input := []byte("---\ntitle: Only Meta\n---")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Only Meta\n"), fm)
	require.Empty(t, body)
}

func TestParse_TypedAndRawFields(t *testing.T) {
	fm := []byte("title: Demo Project\nname: demo\ndate: 2016-02-19\ntags: [go, web]\ntools:\n  - docker\nweight: 3\ndraft: true\ncustom_field: hello\n")

	fields, raw, err := Parse(fm)
	require.NoError(t, err)

	assert.Equal(t, "Demo Project", fields.Title)
	assert.Equal(t, "demo", fields.Name)
	assert.Equal(t, time.Date(2016, 2, 19, 0, 0, 0, 0, time.UTC), fields.Date)
	assert.Equal(t, []string{"go", "web"}, fields.Tags)
	assert.Equal(t, []string{"docker"}, fields.Tools)
	assert.Equal(t, 3, fields.Weight)
	assert.True(t, fields.Draft)
	assert.Equal(t, "hello", raw["custom_field"])
}

func TestParse_Empty_ReturnsZeroFieldsAndEmptyMap(t *testing.T) {
	fields, raw, err := Parse(nil)
	require.NoError(t, err)
	assert.Zero(t, fields)
	assert.Empty(t, raw)
	assert.NotNil(t, raw)
}

func TestParse_MalformedYAML_ReturnsError(t *testing.T) {
	_, _, err := Parse([]byte("title: [unclosed\n"))
	require.Error(t, err)
}

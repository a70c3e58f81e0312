package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/glamour"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	buf := &bytes.Buffer{}
	PrintBanner(buf, "1.2.3")

	out := buf.String()
	assert.Contains(t, out, "v1.2.3")
	assert.NotContains(t, out, "\x1b[", "a buffer is not a terminal")
	assert.Equal(t, len(bannerLines)+3, strings.Count(out, "\n"))
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer(glamour.WithStandardStyle("notty"))

	out, err := render("# Keys\n\nPress `AC` to clear.")
	require.NoError(t, err)
	assert.Contains(t, out, "Keys")
	assert.Contains(t, out, "AC")
}

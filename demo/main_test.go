package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/computerdane/flexlabel"
	"github.com/computerdane/flexlabel/renderers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	row, col, err := parseCell("2:5")
	require.NoError(t, err)
	assert.Equal(t, 1, row)
	assert.Equal(t, 4, col)

	for _, bad := range []string{"", "2", "a:1", "1:b"} {
		_, _, err := parseCell(bad)
		assert.Error(t, err, bad)
	}
}

func TestClickTapsTheCellUnderIt(t *testing.T) {
	var tapped []string
	label := flexlabel.NewLabel()
	cfg, err := flexlabel.LoadConfig(strings.NewReader(`
[[spans]]
text = "see "

[[spans]]
text = "docs"
on_tap = "open-docs"
`))
	require.NoError(t, err)
	cfg.Apply(label, func(action string) { tapped = append(tapped, action) })

	r := renderers.NewANSIRenderer(&bytes.Buffer{}, flexlabel.NewBox(0, 0, 10, 1))
	label.SetRenderer(r)

	require.NoError(t, click(label, r, "1:1"))
	assert.Empty(t, tapped)
	require.NoError(t, click(label, r, "1:6"))
	assert.Equal(t, []string{"open-docs"}, tapped)
	assert.Error(t, click(label, r, "x"))
}

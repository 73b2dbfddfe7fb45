// SPDX-License-Identifier: Unlicense OR MIT

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderpad/shaderpad/preamble"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 256, c.Width)
	assert.Equal(t, 256, c.Height)
	require.Len(t, c.Panels, 4)
	assert.Equal(t, "panel1", c.Panels[0].Name)

	pre, err := c.PreambleText()
	require.NoError(t, err)
	assert.Equal(t, preamble.Default, pre)
	main, err := c.Panels[2].MainText()
	require.NoError(t, err)
	assert.Equal(t, preamble.DefaultMain, main)
	assert.Empty(t, c.Files())
}

func TestDecode(t *testing.T) {
	const doc = `
width = 320
preamble = "pre.glsl"

[[panel]]
name = "waves"
source = "waves.frag"

[[panel]]
name = "rings"
`
	c := Default()
	require.NoError(t, Decode(strings.NewReader(doc), c))
	assert.Equal(t, 320, c.Width)
	assert.Equal(t, 256, c.Height)
	assert.Equal(t, "pre.glsl", c.Preamble)
	assert.Equal(t, []Panel{
		{Name: "waves", Source: "waves.frag"},
		{Name: "rings"},
	}, c.Panels)
}

func TestDecodeUnknownKey(t *testing.T) {
	err := Decode(strings.NewReader("widht = 3\n"), Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widht")
}

func TestDecodeSyntaxError(t *testing.T) {
	require.Error(t, Decode(strings.NewReader("width = \n"), Default()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		err    string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "invalid panel size"},
		{"negative height", func(c *Config) { c.Height = -1 }, "invalid panel size"},
		{"no panels", func(c *Config) { c.Panels = nil }, "no panels"},
		{"unnamed", func(c *Config) { c.Panels[1].Name = "" }, "panel 2 has no name"},
		{"duplicate", func(c *Config) { c.Panels[3].Name = "panel1" }, `duplicate panel name "panel1"`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := Default()
			test.modify(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "shaderpad.toml")
	write(t, cfg, `
width = 100
height = 50
preamble = "pre.glsl"

[[panel]]
name = "a"
source = "a.frag"
`)
	write(t, filepath.Join(dir, "pre.glsl"), "#version 300 es\n")
	write(t, filepath.Join(dir, "a.frag"), "void main() {}\n")

	f, err := ParseFlags("shaderpad", []string{"-config", cfg, "-height", "64"})
	require.NoError(t, err)
	c, err := Load(f)
	require.NoError(t, err)
	assert.Equal(t, 100, c.Width)
	assert.Equal(t, 64, c.Height)
	assert.Equal(t, filepath.Join(dir, "pre.glsl"), c.Preamble)
	require.Len(t, c.Panels, 1)
	assert.Equal(t, filepath.Join(dir, "a.frag"), c.Panels[0].Source)
	assert.Equal(t, []string{c.Preamble, c.Panels[0].Source}, c.Files())

	pre, err := c.PreambleText()
	require.NoError(t, err)
	assert.Equal(t, "#version 300 es\n", pre)
	main, err := c.Panels[0].MainText()
	require.NoError(t, err)
	assert.Equal(t, "void main() {}\n", main)
}

func TestLoadFiles(t *testing.T) {
	f, err := ParseFlags("shaderpad", []string{"-v", "-snapshot", "out", "x/waves.frag", "y/rings.glsl"})
	require.NoError(t, err)
	assert.True(t, f.Verbose)
	assert.Equal(t, "out", f.Snapshot)
	c, err := Load(f)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, c.Width)
	assert.Equal(t, []Panel{
		{Name: "waves", Source: "x/waves.frag"},
		{Name: "rings", Source: "y/rings.glsl"},
	}, c.Panels)
}

func TestLoadDuplicateFiles(t *testing.T) {
	f, err := ParseFlags("shaderpad", []string{"x/a.frag", "y/a.frag"})
	require.NoError(t, err)
	_, err = Load(f)
	assert.ErrorContains(t, err, "duplicate panel name")
}

func TestLoadMissingFile(t *testing.T) {
	f, err := ParseFlags("shaderpad", []string{"-config", filepath.Join(t.TempDir(), "missing.toml")})
	require.NoError(t, err)
	_, err = Load(f)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseFlagsError(t *testing.T) {
	_, err := ParseFlags("shaderpad", []string{"-width", "wide"})
	assert.Error(t, err)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// SPDX-License-Identifier: Unlicense OR MIT

// Package config loads the shaderpad editor configuration from a TOML
// file and the command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/slices"

	"github.com/shaderpad/shaderpad/preamble"
)

// Config describes the editor panels.
type Config struct {
	// Width and Height are the panel surface size in pixels.
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// Preamble is the path of the fragment preamble file. The built-in
	// preamble is used when empty.
	Preamble string  `toml:"preamble"`
	Panels   []Panel `toml:"panel"`
}

// Panel is one surface running a main function.
type Panel struct {
	Name string `toml:"name"`
	// Source is the path of the main function file. The default main
	// function is used when empty.
	Source string `toml:"source"`
}

// Flags are the command line settings.
type Flags struct {
	Config   string
	Snapshot string
	Verbose  bool
	Width    int
	Height   int
	Preamble string
	// Files are the positional arguments, one main function file per
	// panel.
	Files []string

	set map[string]bool
}

const (
	DefaultWidth  = 256
	DefaultHeight = 256
	DefaultPanels = 4
)

// Default returns the configuration of the built-in page: four 256x256
// panels running the default main function.
func Default() *Config {
	c := &Config{
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
	for i := 0; i < DefaultPanels; i++ {
		c.Panels = append(c.Panels, Panel{Name: fmt.Sprintf("panel%d", i+1)})
	}
	return c
}

// ParseFlags parses the command line arguments of the named command.
func ParseFlags(name string, args []string) (*Flags, error) {
	f := &Flags{set: make(map[string]bool)}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&f.Config, "config", "", "TOML configuration file")
	fs.StringVar(&f.Snapshot, "snapshot", "", "render every panel to `dir`/<panel>.png and exit")
	fs.BoolVar(&f.Verbose, "v", false, "verbose logging")
	fs.IntVar(&f.Width, "width", DefaultWidth, "panel width")
	fs.IntVar(&f.Height, "height", DefaultHeight, "panel height")
	fs.StringVar(&f.Preamble, "preamble", "", "fragment preamble file")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: %s [flags] [main.frag ...]\n", name)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})
	f.Files = fs.Args()
	return f, nil
}

// Load builds the configuration from the defaults, the configuration
// file named by f, if any, and the flags explicitly set in f.
func Load(f *Flags) (*Config, error) {
	c := Default()
	if f.Config != "" {
		var err error
		c, err = ReadFile(f.Config)
		if err != nil {
			return nil, err
		}
	}
	if f.set["width"] {
		c.Width = f.Width
	}
	if f.set["height"] {
		c.Height = f.Height
	}
	if f.set["preamble"] {
		c.Preamble = f.Preamble
	}
	if len(f.Files) > 0 {
		c.SetFiles(f.Files)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadFile decodes the configuration file at path over the defaults.
// Relative paths in the file are resolved against its directory.
func ReadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	c := Default()
	if err := Decode(file, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	c.Preamble = resolve(dir, c.Preamble)
	for i := range c.Panels {
		c.Panels[i].Source = resolve(dir, c.Panels[i].Source)
	}
	return c, nil
}

// Decode decodes TOML from r into c. Unknown keys are an error. Panels
// in r replace the panels of c.
func Decode(r io.Reader, c *Config) error {
	var file Config
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return fmt.Errorf("unknown keys:\n%s", serr.String())
		}
		return err
	}
	if file.Width != 0 {
		c.Width = file.Width
	}
	if file.Height != 0 {
		c.Height = file.Height
	}
	if file.Preamble != "" {
		c.Preamble = file.Preamble
	}
	if file.Panels != nil {
		c.Panels = file.Panels
	}
	return nil
}

// SetFiles replaces the panels with one panel per main function file,
// named after the file.
func (c *Config) SetFiles(files []string) {
	c.Panels = c.Panels[:0]
	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		c.Panels = append(c.Panels, Panel{Name: name, Source: f})
	}
}

// Validate reports the first invalid setting of c.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: invalid panel size %dx%d", c.Width, c.Height)
	}
	if len(c.Panels) == 0 {
		return errors.New("config: no panels")
	}
	var names []string
	for i, p := range c.Panels {
		if p.Name == "" {
			return fmt.Errorf("config: panel %d has no name", i+1)
		}
		if slices.Contains(names, p.Name) {
			return fmt.Errorf("config: duplicate panel name %q", p.Name)
		}
		names = append(names, p.Name)
	}
	return nil
}

// PreambleText returns the fragment preamble.
func (c *Config) PreambleText() (string, error) {
	if c.Preamble == "" {
		return preamble.Default, nil
	}
	b, err := os.ReadFile(c.Preamble)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Files returns the paths of the files the configuration reads.
func (c *Config) Files() []string {
	var files []string
	if c.Preamble != "" {
		files = append(files, c.Preamble)
	}
	for _, p := range c.Panels {
		if p.Source != "" && !slices.Contains(files, p.Source) {
			files = append(files, p.Source)
		}
	}
	return files
}

// MainText returns the main function source of the panel.
func (p Panel) MainText() (string, error) {
	if p.Source == "" {
		return preamble.DefaultMain, nil
	}
	b, err := os.ReadFile(p.Source)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

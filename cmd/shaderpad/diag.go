// SPDX-License-Identifier: Unlicense OR MIT

//go:build !js
// +build !js

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/shaderpad/shaderpad/gpu"
)

// printer writes shader diagnostics to a terminal.
type printer struct {
	out *termenv.Output
}

// diagContext is the number of source lines printed around an error
// line.
const diagContext = 2

func newPrinter(w io.Writer, opts ...termenv.OutputOption) *printer {
	return &printer{out: termenv.NewOutput(w, opts...)}
}

// source locates the lines of a composed fragment source.
type source struct {
	panel string
	// file is the main function file, or empty for the default main
	// function.
	file string
	// preLines is the number of lines of the preamble.
	preLines int
}

// location returns the file position of line k of the composed source.
func (s source) location(k int) string {
	if k <= s.preLines {
		return fmt.Sprintf("preamble:%d", k)
	}
	file := s.file
	if file == "" {
		file = "main"
	}
	return fmt.Sprintf("%s:%d", file, k-s.preLines)
}

// print reports err, returned from setting the program of src.
func (p *printer) print(src source, err error) {
	var (
		cerr *gpu.CompileError
		lerr *gpu.LinkError
	)
	title := p.out.String(src.panel + ":").Bold()
	switch {
	case errors.As(err, &cerr) && !errors.Is(err, gpu.ErrInternal):
		fmt.Fprintf(p.out, "%s %s\n", title, p.red(fmt.Sprintf("%s shader compilation failed", cerr.Kind)))
		p.printSource(src, cerr)
	case errors.As(err, &lerr):
		fmt.Fprintf(p.out, "%s %s\n", title, p.red("program link failed"))
		p.printLog(lerr.Log)
	default:
		fmt.Fprintf(p.out, "%s %s\n", title, p.red(err.Error()))
	}
}

func (p *printer) printSource(src source, cerr *gpu.CompileError) {
	lines := strings.Split(cerr.Source, "\n")
	if len(cerr.Lines) == 0 {
		p.printLog(cerr.Log)
		return
	}
	marked := make(map[int]bool)
	for _, k := range cerr.Lines {
		marked[k] = true
		fmt.Fprintf(p.out, "  --> %s\n", src.location(k))
	}
	last := 0
	for k := 1; k <= len(lines); k++ {
		if !near(k, cerr.Lines) {
			continue
		}
		if last != 0 && k > last+1 {
			fmt.Fprintln(p.out, p.out.String("  ...").Faint())
		}
		last = k
		l := "  " + lines[k-1]
		if marked[k] {
			fmt.Fprintln(p.out, p.out.String(l).Foreground(p.out.Color("1")))
		} else {
			fmt.Fprintln(p.out, p.out.String(l).Faint())
		}
	}
	p.printLog(cerr.Log)
}

func (p *printer) printLog(log string) {
	for _, l := range strings.Split(strings.TrimSpace(log), "\n") {
		fmt.Fprintf(p.out, "  %s\n", l)
	}
}

func (p *printer) red(s string) termenv.Style {
	return p.out.String(s).Foreground(p.out.Color("1")).Bold()
}

func near(k int, lines []int) bool {
	for _, l := range lines {
		if k >= l-diagContext && k <= l+diagContext {
			return true
		}
	}
	return false
}

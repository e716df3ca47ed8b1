package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"sosi2gpkg/internal/importer"
)

// terminalPrompter asks questions on a line-oriented stream. Prompts go to
// errOut so stdout carries only results. End of input declines.
type terminalPrompter struct {
	in        *bufio.Reader
	out       io.Writer
	errOut    io.Writer
	assumeYes bool
	noInput   bool
	json      bool

	// beforeOutput runs before the summary or an error is printed, to clear
	// a progress bar.
	beforeOutput func()
}

func newTerminalPrompter(in io.Reader, out, errOut io.Writer) *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(in), out: out, errOut: errOut}
}

func (p *terminalPrompter) SelectPaths(_ context.Context, defaults importer.Paths) (importer.Paths, bool) {
	if p.noInput {
		return importer.Paths{}, false
	}
	input, ok := p.ask("Input SOSI file", defaults.Input)
	if !ok || input == "" {
		return importer.Paths{}, false
	}
	suggested := defaults.Output
	if suggested == "" {
		suggested = strings.TrimSuffix(input, filepath.Ext(input)) + ".gpkg"
	}
	output, ok := p.ask("Output GeoPackage", suggested)
	if !ok || output == "" {
		return importer.Paths{}, false
	}
	return importer.Paths{Input: input, Output: output}, true
}

func (p *terminalPrompter) ConfirmOverwrite(_ context.Context, path string) bool {
	if p.assumeYes {
		return true
	}
	if p.noInput {
		fmt.Fprintf(p.errOut, "File already exists: %s (use --yes to overwrite)\n", path)
		return false
	}
	fmt.Fprintf(p.errOut, "File already exists:\n%s\n\n", path)
	answer, ok := p.ask("Overwrite? [y/N]", "")
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "j", "ja":
		return true
	default:
		return false
	}
}

func (p *terminalPrompter) ResolveCRS(_ context.Context, code int, hasCode bool) (importer.CRSOverride, bool) {
	detected := "missing"
	if hasCode {
		detected = strconv.Itoa(code)
	}
	if p.noInput {
		fmt.Fprintf(p.errOut, "KOORDSYS %s is not recognized; pass --source-epsg to choose a coordinate system\n", detected)
		return importer.CRSOverride{}, false
	}

	fmt.Fprintf(p.errOut, "KOORDSYS %s is not recognized. Choose the coordinate system of the input.\n", detected)
	for i, choice := range importer.SourceChoices {
		fmt.Fprintf(p.errOut, "  %d) EPSG:%d\n", i+1, choice)
	}
	source, ok := p.choose("Source", importer.SourceChoices, strconv.Itoa(importer.SourceChoices[0]))
	if !ok {
		return importer.CRSOverride{}, false
	}

	fmt.Fprintln(p.errOut, "  0) same (no reprojection)")
	for i, choice := range importer.TargetChoices {
		fmt.Fprintf(p.errOut, "  %d) EPSG:%d\n", i+1, choice)
	}
	for {
		answer, ok := p.ask("Output", "same")
		if !ok {
			return importer.CRSOverride{}, false
		}
		if answer == "0" {
			return importer.CRSOverride{Source: source}, true
		}
		if idx, err := strconv.Atoi(answer); err == nil && idx >= 1 && idx <= len(importer.TargetChoices) {
			target := importer.TargetChoices[idx-1]
			return importer.CRSOverride{Source: source, Target: &target}, true
		}
		target, err := importer.ParseTarget(answer)
		if err != nil {
			fmt.Fprintln(p.errOut, err)
			continue
		}
		return importer.CRSOverride{Source: source, Target: target}, true
	}
}

func (p *terminalPrompter) ShowSummary(_ context.Context, summary importer.Summary) {
	p.clearProgress()
	if p.json {
		return
	}
	fmt.Fprintln(p.out, summary.Text())
}

func (p *terminalPrompter) ShowError(_ context.Context, err error) {
	p.clearProgress()
	fmt.Fprintln(p.errOut, err)
}

func (p *terminalPrompter) clearProgress() {
	if p.beforeOutput != nil {
		p.beforeOutput()
	}
}

// choose reads a list index or an EPSG code.
func (p *terminalPrompter) choose(label string, choices []int, fallback string) (int, bool) {
	for {
		answer, ok := p.ask(label, fallback)
		if !ok {
			return 0, false
		}
		if idx, err := strconv.Atoi(answer); err == nil && idx >= 1 && idx <= len(choices) {
			return choices[idx-1], true
		}
		code, err := importer.ParseEPSG(answer)
		if err != nil {
			fmt.Fprintln(p.errOut, err)
			continue
		}
		return code, true
	}
}

// ask prints a prompt with an optional default and returns the trimmed
// answer. ok is false once input is exhausted.
func (p *terminalPrompter) ask(label, fallback string) (string, bool) {
	if fallback != "" {
		fmt.Fprintf(p.errOut, "%s [%s]: ", label, fallback)
	} else {
		fmt.Fprintf(p.errOut, "%s: ", label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.errOut)
		return "", false
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		answer = fallback
	}
	return answer, true
}

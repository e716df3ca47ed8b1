package main

import (
	"fmt"
	"io"
	"strings"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

var statusStyles = map[statusKind]struct{ tag, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// formatStatus renders "  label:   [TAG] detail", colored by kind.
func formatStatus(label string, kind statusKind, detail string, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusInfo]
	}
	status := "[" + style.tag + "]"
	if detail != "" {
		status += " " + detail
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", status)
	if colorize {
		return style.color + line + ansiReset
	}
	return line
}

// report accumulates doctor output grouped under section headers.
type report struct {
	colorize bool
	lines    []string
}

func (r *report) section(title string) {
	if len(r.lines) > 0 {
		r.lines = append(r.lines, "")
	}
	header := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(header))
	if r.colorize {
		header = ansiBlue + header + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	r.lines = append(r.lines, header, rule)
}

func (r *report) add(label string, kind statusKind, detail string) {
	r.lines = append(r.lines, formatStatus(label, kind, detail, r.colorize))
}

func (r *report) String() string {
	return strings.Join(r.lines, "\n")
}

func shouldColorize(w io.Writer) bool {
	return isTerminal(w)
}

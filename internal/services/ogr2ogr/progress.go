package ogr2ogr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"sosi2gpkg/internal/progress"
)

// maxPartialTail bounds the unterminated output kept between chunks.
const maxPartialTail = 256

var (
	percentPattern = regexp.MustCompile(`(\d{1,3})\s*%`)
	dotsPattern    = regexp.MustCompile(`(\d{1,3})\.+`)
	lineSplit      = regexp.MustCompile(`[\r\n]+`)
)

// ParseProgress extracts a completion percentage from one line of ogr2ogr
// output. A "NN%" figure wins; otherwise the last digit run that is followed
// by dots and not glued to a preceding word is used ("0...10...20..." is 20).
// Values are clamped to 0..100.
func ParseProgress(line string) (int, bool) {
	if m := percentPattern.FindStringSubmatch(line); m != nil {
		return parseClamped(m[1])
	}
	matches := dotsPattern.FindAllStringSubmatchIndex(line, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		start := matches[i][2]
		if start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(line[:start])
			if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
				continue
			}
		}
		return parseClamped(line[start:matches[i][3]])
	}
	return 0, false
}

func parseClamped(digits string) (int, bool) {
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return progress.Clamp(v), true
}

// progressTracker maps scraped values onto a sink for one attempt. Once a
// value is seen the sink stays determinate; values never move backwards and
// repeats are not pushed.
type progressTracker struct {
	sink        progress.Sink
	label       string
	determinate bool
	last        int
	partial     string
}

func newProgressTracker(sink progress.Sink, label string) *progressTracker {
	sink.Indeterminate()
	sink.SetLabel(label)
	return &progressTracker{sink: sink, label: label, last: -1}
}

// feed consumes a raw output chunk. The unterminated tail is remembered so a
// dots line written in pieces is re-read as it grows; only its last
// maxPartialTail bytes are kept.
func (p *progressTracker) feed(chunk string) {
	lines := lineSplit.Split(p.partial+chunk, -1)
	for _, line := range lines[:len(lines)-1] {
		p.observe(line)
	}
	tail := lines[len(lines)-1]
	p.observe(tail)
	p.partial = trimTail(tail)
}

// trimTail cuts s to at most maxPartialTail bytes, starting at a separator so
// a clipped word or number is not mistaken for a progress figure.
func trimTail(s string) string {
	if len(s) <= maxPartialTail {
		return s
	}
	s = s[len(s)-maxPartialTail:]
	if i := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}); i > 0 {
		s = s[i:]
	}
	return s
}

func (p *progressTracker) observe(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	value, ok := ParseProgress(line)
	if !ok {
		if !p.determinate {
			p.sink.SetLabel(p.label)
		}
		return
	}
	p.push(value)
}

func (p *progressTracker) push(value int) {
	if !p.determinate {
		p.determinate = true
		p.sink.Determinate()
	}
	if value <= p.last {
		return
	}
	p.last = value
	p.sink.SetValue(value)
	p.sink.SetLabel(fmt.Sprintf("%s (%d%%)", p.label, value))
}

func (p *progressTracker) complete() {
	p.push(100)
}

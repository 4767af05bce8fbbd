package document

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/bidi"
)

// visualOrder reorders s for a renderer that lays glyphs out left to right.
// Text with Hebrew is treated as a right-to-left paragraph: the runs are
// emitted last to first and each right-to-left run is reversed, so numbers and
// Latin words keep their reading order. Other text is returned unchanged.
func visualOrder(s string) string {
	if !strings.ContainsFunc(s, isRTL) {
		return s
	}

	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return s
	}
	order, err := p.Order()
	if err != nil {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := order.NumRuns() - 1; i >= 0; i-- {
		run := order.Run(i)
		if run.Direction() == bidi.RightToLeft {
			b.WriteString(bidi.ReverseString(run.String()))
			continue
		}
		b.WriteString(run.String())
	}
	return b.String()
}

func isRTL(r rune) bool {
	return unicode.Is(unicode.Hebrew, r)
}

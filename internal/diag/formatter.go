package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Formatter renders diagnostics with source snippets and underlines.
type Formatter struct {
	out         io.Writer
	sourceCache map[string]string // Cache of source text by filename
}

// NewFormatter creates a formatter writing to out.
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{
		out:         out,
		sourceCache: make(map[string]string),
	}
}

// AddSource registers in-memory source text under filename so snippets can
// be rendered without touching the filesystem.
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	if filename == "" || filename == "<input>" {
		return "", fmt.Errorf("no source registered for %q", filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// Format writes a diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	filename := spans[0].Span.Filename
	src, err := f.LoadSource(filename)
	if err != nil {
		f.formatSimple(d)
		return
	}

	f.printHeader(d)
	f.printFileSpans(filename, src, spans)
	f.printHelp(d)
}

// collectSpans collects all spans from the diagnostic, prioritizing LabeledSpans.
func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}

	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", severity, d.Message)
	}
}

// printFileSpans prints source lines with underlines for the given spans.
func (f *Formatter) printFileSpans(filename string, src string, spans []LabeledSpan) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	lines := strings.Split(src, "\n")
	spansByLine := make(map[int][]LabeledSpan)
	for _, span := range spans {
		if line := span.Span.Line; line > 0 && line <= len(lines) {
			spansByLine[line] = append(spansByLine[line], span)
		}
	}
	if len(spansByLine) == 0 {
		return
	}

	startLine := spans[0].Span.Line
	endLine := spans[len(spans)-1].Span.Line
	contextStart := max(1, startLine-1)
	contextEnd := min(len(lines), endLine+1)
	width := len(fmt.Sprintf("%d", contextEnd))
	gutter := strings.Repeat(" ", width)

	if filename == "" {
		filename = "<input>"
	}
	fmt.Fprintf(f.out, "  --> %s:%d:%d\n", filename, spans[0].Span.Line, spans[0].Span.Column)
	fmt.Fprintf(f.out, "   %s |\n", gutter)

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		content := lines[lineNum-1]
		fmt.Fprintf(f.out, " %*d | %s\n", width+1, lineNum, content)
		if lineSpans := spansByLine[lineNum]; len(lineSpans) > 0 {
			f.printUnderlines(gutter, content, lineSpans)
		}
	}

	fmt.Fprintf(f.out, "   %s |\n", gutter)
}

// printUnderlines prints ^ under primary spans and ~ under secondary ones.
func (f *Formatter) printUnderlines(gutter string, content string, spans []LabeledSpan) {
	underline := []byte(strings.Repeat(" ", len(content)+1))

	mark := func(span LabeledSpan, ch byte) {
		start := max(0, span.Span.Column-1)
		end := min(len(underline), start+max(1, span.Span.End-span.Span.Start))
		for i := start; i < end; i++ {
			if underline[i] == ' ' {
				underline[i] = ch
			}
		}
	}
	for _, span := range spans {
		if span.Style != "secondary" {
			mark(span, '^')
		}
	}
	for _, span := range spans {
		if span.Style == "secondary" {
			mark(span, '~')
		}
	}

	var labels []string
	for _, span := range spans {
		if span.Label != "" {
			labels = append(labels, span.Label)
		}
	}

	fmt.Fprintf(f.out, "   %s | %s", gutter, strings.TrimRight(string(underline), " "))
	if len(labels) > 0 {
		fmt.Fprintf(f.out, " %s", labels[0])
	}
	fmt.Fprintln(f.out)
	for _, label := range labels[min(1, len(labels)):] {
		fmt.Fprintf(f.out, "   %s | %s\n", gutter, label)
	}
}

// printHelp prints notes and help text.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.out, "help: %s\n", d.Help)
	}
}

// formatSimple formats a diagnostic without source code (fallback).
func (f *Formatter) formatSimple(d Diagnostic) {
	f.printHeader(d)
	if d.Span.IsValid() {
		fmt.Fprintf(f.out, "  --> %s\n", d.Span.String())
	}
	f.printHelp(d)
}

package main

import (
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// lineDiff renders a unified-style line diff of two texts.
func lineDiff(from, to string, colored bool) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	add, del := color.New(color.FgGreen), color.New(color.FgRed)
	if colored {
		add.EnableColor()
		del.EnableColor()
	} else {
		add.DisableColor()
		del.DisableColor()
	}
	var sb strings.Builder
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			if !strings.HasSuffix(line, "\n") {
				line += "\n"
			}
			switch d.Type {
			case diffpatch.DiffInsert:
				sb.WriteString(add.Sprint("+" + line))
			case diffpatch.DiffDelete:
				sb.WriteString(del.Sprint("-" + line))
			default:
				sb.WriteString(" " + line)
			}
		}
	}
	return sb.String()
}

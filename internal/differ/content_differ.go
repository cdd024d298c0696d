package differ

import (
	"bytes"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffResult holds line-level change statistics between two content versions.
type DiffResult struct {
	LinesAdded   int
	LinesRemoved int
	Identical    bool
}

// ContentDiffer compares the previous on-disk zone content against freshly
// fetched content. It is used both to skip byte-identical rewrites and to
// enrich update events with added/removed line counts.
type ContentDiffer struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewContentDiffer creates a new content differ
func NewContentDiffer() *ContentDiffer {
	return &ContentDiffer{
		dmp: diffmatchpatch.New(),
	}
}

// Compare computes line-level diff statistics between previous and current.
// A nil previous is treated as an empty file: every line of current counts
// as added.
func (cd *ContentDiffer) Compare(previous, current []byte) DiffResult {
	if bytes.Equal(previous, current) {
		return DiffResult{Identical: true}
	}

	// Line-mode diff: map lines to runes, diff the rune strings, map back.
	chars1, chars2, lineArray := cd.dmp.DiffLinesToChars(string(previous), string(current))
	diffs := cd.dmp.DiffMain(chars1, chars2, false)
	diffs = cd.dmp.DiffCharsToLines(diffs, lineArray)

	result := DiffResult{}
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			result.LinesAdded += countLines(diff.Text)
		case diffmatchpatch.DiffDelete:
			result.LinesRemoved += countLines(diff.Text)
		}
	}
	return result
}

// countLines counts lines in a diff fragment, including a trailing line
// without a newline terminator.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

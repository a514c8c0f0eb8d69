package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// NormalizeChords rewrites the chord block into portable inline bracket
// notation: every <b> marking a chord name becomes its text wrapped in
// square brackets, then the block's plain text is returned with the
// emphasis markup gone and the brackets kept. Text with no remaining
// markers passes through unchanged, so the rewrite is idempotent.
func NormalizeChords(block *goquery.Selection) string {
	// Work on a detached copy so classification never mutates the document.
	clone := block.Clone()
	clone.Find("b").Each(func(_ int, s *goquery.Selection) {
		replaceWithText(s, "["+s.Text()+"]")
	})
	return clone.Text()
}

// replaceWithText swaps each node of s for a plain text node. Building the
// node directly avoids re-parsing chord names that happen to contain HTML
// metacharacters.
func replaceWithText(s *goquery.Selection, text string) {
	for _, n := range s.Nodes {
		if n.Parent == nil {
			continue
		}
		n.Parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text}, n)
		n.Parent.RemoveChild(n)
	}
}

// trimTrailingSpace drops trailing whitespace per line, which accumulates
// when chord markers sit at line ends in the source markup.
func trimTrailingSpace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, "\n")
}

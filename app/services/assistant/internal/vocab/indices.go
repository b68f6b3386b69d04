package vocab

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var indexToken = regexp.MustCompile(`(?:^|[^\w$.])#?(\d{1,3})(?:st|nd|rd|th)?\b`)

type mention struct {
	pos   int
	index int
}

// Indices finds item references in text and returns them 0-based in the
// order they were mentioned. Numbers are read as 1-based positions; "last"
// resolves against n. Nothing is bounds-checked here.
func Indices(text string, n int) []int {
	norm := Normalize(text)
	var found []mention

	for _, loc := range indexToken.FindAllStringSubmatchIndex(norm, -1) {
		if precededBySize(norm, loc[2]) {
			continue
		}
		v, err := strconv.Atoi(norm[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		found = append(found, mention{pos: loc[2], index: v - 1})
	}

	padded := " " + norm + " "
	for word, v := range Ordinals {
		for _, pos := range allIndexes(padded, " "+word+" ") {
			found = append(found, mention{pos: pos, index: v - 1})
		}
	}
	if n > 0 {
		for _, pos := range allIndexes(padded, " last ") {
			found = append(found, mention{pos: pos, index: n - 1})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })
	out := make([]int, 0, len(found))
	for _, m := range found {
		out = append(out, m.index)
	}
	return out
}

func precededBySize(norm string, pos int) bool {
	return strings.HasSuffix(strings.TrimRight(norm[:pos], " #"), "size")
}

func allIndexes(s, sub string) []int {
	var out []int
	for off := 0; ; {
		i := strings.Index(s[off:], sub)
		if i < 0 {
			return out
		}
		out = append(out, off+i)
		off += i + 1
	}
}

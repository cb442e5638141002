package analyzer

import (
	"sort"

	"github.com/studykit/pdfparse/constants"
)

// SamplePages picks the 1-indexed pages to inspect. Documents at or under
// the threshold are read in full; larger ones sample the first ten pages,
// five around the middle and five at the end, deduplicated and sorted.
func SamplePages(total int) []int {
	if total <= 0 {
		return nil
	}
	if total <= constants.SampleAllPagesMax {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	seen := make(map[int]struct{})
	add := func(from, to int) {
		for i := from; i < to; i++ {
			if i >= 0 && i < total {
				seen[i] = struct{}{}
			}
		}
	}

	mid := total / 2
	add(0, 10)
	add(maxInt(10, mid-2), minInt(mid+3, total))
	add(maxInt(mid+3, total-5), total)

	pages := make([]int, 0, len(seen))
	for i := range seen {
		pages = append(pages, i+1)
	}
	sort.Ints(pages)
	return pages
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

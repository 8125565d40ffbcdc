package trivia

import "strconv"

// Paginate returns items[(page-1)*size : page*size], clamped to the bounds of items.
// A page past the end yields an empty slice.
func Paginate[T any](page, size int, items []T) []T {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return []T{}
	}
	// compare page counts first; (page-1)*size overflows for huge pages
	if page-1 >= (len(items)+size-1)/size {
		return []T{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// ParsePage reads the page query parameter. Missing, malformed and non-positive
// values all mean the first page.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

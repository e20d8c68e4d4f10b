package table

// DefaultPageSize is the page size of every resource table unless configured.
const DefaultPageSize = 10

// Page is one slice of a filtered, sorted view.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	Size       int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// PageCount returns how many pages n items fill. An empty view still has one page.
func PageCount(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns page number (1-based) of items. Numbers below 1 are treated
// as 1; numbers past the end yield an empty page rather than being clamped.
func Paginate[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if number < 1 {
		number = 1
	}
	p := Page[T]{
		Items:      []T{},
		Number:     number,
		Size:       size,
		TotalItems: len(items),
		TotalPages: PageCount(len(items), size),
	}
	if number-1 >= p.TotalPages {
		return p
	}
	start := (number - 1) * size
	if start >= len(items) {
		return p
	}
	end := min(start+size, len(items))
	p.Items = append(p.Items, items[start:end]...)
	return p
}

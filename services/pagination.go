package services

// PageDescriptor is one planned document page.
type PageDescriptor[T any] struct {
	PageIndex          int  `json:"pageIndex"`
	TotalPages         int  `json:"totalPages"`
	Items              []T  `json:"items"`
	IsFirstPage        bool `json:"isFirstPage"`
	IsLastPage         bool `json:"isLastPage"`
	SerialNumberOffset int  `json:"serialNumberOffset"`
}

// ShowHeader reports whether the company/customer block renders on this page.
func (p PageDescriptor[T]) ShowHeader() bool {
	return p.IsFirstPage || p.TotalPages == 1
}

// ShowFooter reports whether the totals and legal text render on this page.
func (p PageDescriptor[T]) ShowFooter() bool {
	return p.IsLastPage || p.TotalPages == 1
}

// SerialNumber returns the 1-based row number of the i-th item on this page,
// continuing the numbering of the previous pages.
func (p PageDescriptor[T]) SerialNumber(i int) int {
	return p.SerialNumberOffset + i + 1
}

// PageCount returns max(1, ceil(n / perPage)). perPage below 1 is treated as 1.
func PageCount(n, perPage int) int {
	if perPage < 1 {
		perPage = 1
	}
	if n <= 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}

// PlanPages splits items into consecutive pages of at most perPage items.
// An empty list still yields one page so the header and footer are emitted.
// Each page slices the input without copying; callers must not mutate items
// while the plan is in use.
func PlanPages[T any](items []T, perPage int) []PageDescriptor[T] {
	if perPage < 1 {
		perPage = 1
	}
	n := len(items)
	total := PageCount(n, perPage)

	pages := make([]PageDescriptor[T], 0, total)
	for i := 0; i < total; i++ {
		start := i * perPage
		end := min(start+perPage, n)
		pages = append(pages, PageDescriptor[T]{
			PageIndex:          i,
			TotalPages:         total,
			Items:              items[start:end:end],
			IsFirstPage:        i == 0,
			IsLastPage:         i == total-1,
			SerialNumberOffset: start,
		})
	}
	return pages
}

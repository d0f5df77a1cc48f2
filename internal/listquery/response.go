package listquery

// PageResponse is the envelope returned by list endpoints. Either field may be
// missing from the decoded JSON.
type PageResponse[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

// NewPageResponse builds the envelope for one page. Results is never encoded
// as null.
func NewPageResponse[T any](items []T, count int) PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PageResponse[T]{Results: items, Count: count}
}

// PageResult is one page of a list as the caller sees it.
type PageResult[T any] struct {
	Items      []T
	TotalCount int
}

// FromPageResponse reads an envelope. Missing results become an empty slice,
// a missing count becomes 0.
func FromPageResponse[T any](resp PageResponse[T]) PageResult[T] {
	items := resp.Results
	if items == nil {
		items = []T{}
	}
	total := resp.Count
	if total < 0 {
		total = 0
	}
	return PageResult[T]{Items: items, TotalCount: total}
}

// ShouldStepBack reports whether q asked for a page past the end of the list,
// for example after the last row of the final page was deleted. The caller
// should then fetch q.StepBack().
func ShouldStepBack[T any](q ListQuery, result PageResult[T]) bool {
	return len(result.Items) == 0 && q.PageIndex > 0
}

package digest

// pageDelta is how many pages are shown on each side of the current one.
const pageDelta = 2

// PageLink is one entry of a pagination bar. Gap entries render as "...".
type PageLink struct {
	Number  int
	Current bool
	Gap     bool
}

// Pagination describes the bar under an archive listing.
type Pagination struct {
	Current    int
	TotalPages int
	TotalItems int
	StartItem  int
	EndItem    int
	Links      []PageLink
}

// Visible reports whether the bar should be rendered at all.
func (p Pagination) Visible() bool { return p.TotalPages > 1 }

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Current > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Current < p.TotalPages }

// Prev returns the previous page number.
func (p Pagination) Prev() int { return p.Current - 1 }

// Next returns the next page number.
func (p Pagination) Next() int { return p.Current + 1 }

// Paginate builds the pagination bar for total items split into pages of
// perPage, with current clamped into range.
func Paginate(total, perPage, current int) Pagination {
	if perPage <= 0 {
		perPage = DefaultLimit
	}
	totalPages := (total + perPage - 1) / perPage
	if current < 1 {
		current = 1
	}
	if totalPages > 0 && current > totalPages {
		current = totalPages
	}

	p := Pagination{
		Current:    current,
		TotalPages: totalPages,
		TotalItems: total,
	}
	if total > 0 {
		p.StartItem = (current-1)*perPage + 1
		p.EndItem = min(current*perPage, total)
	}
	if totalPages <= 1 {
		return p
	}

	start := max(1, current-pageDelta)
	end := min(totalPages, current+pageDelta)

	if start > 1 {
		p.Links = append(p.Links, PageLink{Number: 1})
		if start > 2 {
			p.Links = append(p.Links, PageLink{Gap: true})
		}
	}
	for i := start; i <= end; i++ {
		p.Links = append(p.Links, PageLink{Number: i, Current: i == current})
	}
	if end < totalPages {
		if end < totalPages-1 {
			p.Links = append(p.Links, PageLink{Gap: true})
		}
		p.Links = append(p.Links, PageLink{Number: totalPages})
	}
	return p
}

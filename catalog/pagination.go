package catalog

// Pagination is the server-derived pagination envelope. Clients read it to
// drive page controls and prefetch decisions; they never recompute it.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalData   int  `json:"totalData"`
	HasNextPage bool `json:"hasNextPage"`
}

// Page couples one page of records with its pagination envelope.
type Page[T any] struct {
	Items      []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate computes the envelope for a result set of total records viewed at
// page (1-based) with the given limit. Used by the reference backend; the
// client side only decodes what the server sent.
func Paginate(page, limit, total int) Pagination {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	totalPages := (total + limit - 1) / limit
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalData:   total,
		HasNextPage: page < totalPages,
	}
}

// Slice returns the half-open index range [from, to) for page/limit over a
// collection of length total.
func Slice(page, limit, total int) (from, to int) {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	from = (page - 1) * limit
	if from > total {
		from = total
	}
	to = from + limit
	if to > total {
		to = total
	}
	return from, to
}

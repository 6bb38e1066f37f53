package models

// Pagination describes the window of a paginated list response.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// Paged is the uniform envelope for every list endpoint:
// {"data": [...], "pagination": {...}}.
type Paged struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPaged wraps data with pagination metadata computed from total/page/limit.
func NewPaged(data any, total int64, page, limit int) Paged {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Paged{
		Data: data,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: pages,
		},
	}
}

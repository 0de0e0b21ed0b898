package dto

type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

type TaskPage struct {
	Data []TaskResponse `json:"data"`
	Meta PageMeta       `json:"meta"`
}

// NewPageMeta derives the page descriptor from a raw result count.
// totalPages is ceil(total/limit); total == 0 yields zero pages and no next.
func NewPageMeta(page, limit int, total int64) PageMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return PageMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func NewTaskPage(items []TaskResponse, page, limit int, total int64) *TaskPage {
	if items == nil {
		items = []TaskResponse{}
	}
	return &TaskPage{
		Data: items,
		Meta: NewPageMeta(page, limit, total),
	}
}

package validators

import (
	"strconv"

	apperrors "task-tracker.com/task-tracker/internal/errors"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	minLimit     = 10
)

// ValidatePagination parses the page and limit query parameters. Absent
// values take the defaults; a limit below 10 is rejected, not honored.
func ValidatePagination(pageParam, limitParam string) (int, int, error) {
	page := defaultPage
	if pageParam != "" {
		p, err := strconv.Atoi(pageParam)
		if err != nil || p < 1 {
			return 0, 0, apperrors.ErrInvalidPage
		}
		page = p
	}

	limit := defaultLimit
	if limitParam != "" {
		l, err := strconv.Atoi(limitParam)
		if err != nil || l < minLimit {
			return 0, 0, apperrors.ErrInvalidLimit
		}
		limit = l
	}

	return page, limit, nil
}

package parking

// Page — окно выдачи карты мест.
type Page[T any] struct {
	Items      []T
	Page       int // с 1
	PageSize   int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Paginate режет items на страницы. Неположительные page и pageSize
// заменяются значениями по умолчанию, pageSize ограничен сверху.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	switch {
	case pageSize <= 0:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}
	page = max(page, 1)

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	// страницы за концом пустые; сравнение до умножения, иначе переполнение
	start := total
	if page <= totalPages {
		start = (page - 1) * pageSize
	}
	end := min(start+pageSize, total)

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    end < total,
		HasPrev:    page > 1,
	}
}

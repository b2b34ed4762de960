package util

// Calculate turns 1-based page/size query params into an offset+limit
// pair, clamping size to a sane window.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	from = (page - 1) * size
	return from, size
}

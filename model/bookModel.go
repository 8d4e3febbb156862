// model/book.go
package model

import "time"

type Stock struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
}

// Pricing is the per-duration price table. Tiers must be strictly
// increasing: day3 < day5 < day7, all positive.
type Pricing struct {
	Day3 int64 `json:"day3"`
	Day5 int64 `json:"day5"`
	Day7 int64 `json:"day7"`
}

// ForDays returns the price for a duration of 3, 5 or 7 days.
func (p Pricing) ForDays(days int) (int64, bool) {
	switch days {
	case 3:
		return p.Day3, true
	case 5:
		return p.Day5, true
	case 7:
		return p.Day7, true
	}
	return 0, false
}

type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Category    []string  `json:"category"`
	Description string    `json:"description"`
	CoverImage  string    `json:"cover_image"`
	Stock       Stock     `json:"stock"`
	Pricing     Pricing   `json:"pricing"`
	CreatedAt   time.Time `json:"created_at"`
}

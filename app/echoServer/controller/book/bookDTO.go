package book

// BookPayload is the typed form state of the admin manage-book page.
// Tag rules mirror the authoring invariants: tiers strictly
// increasing, available never above total.
type BookPayload struct {
	Title       string         `json:"title" validate:"required"`
	Author      string         `json:"author" validate:"required"`
	Category    []string       `json:"category"`
	Description string         `json:"description"`
	CoverImage  string         `json:"cover_image"`
	CoverURL    string         `json:"cover_url" validate:"omitempty,url"`
	Stock       StockPayload   `json:"stock"`
	Pricing     PricingPayload `json:"pricing"`
}

type StockPayload struct {
	Total     int64 `json:"total" validate:"gte=0"`
	Available int64 `json:"available" validate:"gte=0,ltefield=Total"`
}

type PricingPayload struct {
	Day3 int64 `json:"day3" validate:"gt=0"`
	Day5 int64 `json:"day5" validate:"gt=0,gtfield=Day3"`
	Day7 int64 `json:"day7" validate:"gt=0,gtfield=Day5"`
}

package rental

// RentReq books one copy for the chosen duration tier.
type RentReq struct {
	BookID int64 `json:"book_id" validate:"required,gt=0"`
	Days   int   `json:"days" validate:"required,oneof=3 5 7"`
}

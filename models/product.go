package models

// Product represents one normalized product record extracted from a
// schedule sheet. Pointer fields serialize as explicit JSON nulls when
// the source cells held nothing usable.
type Product struct {
	DocCode            *string  `json:"doc_code"`
	ProductName        *string  `json:"product_name"`
	Brand              *string  `json:"brand"`
	Colour             *string  `json:"colour"`
	Finish             *string  `json:"finish"`
	Material           *string  `json:"material"`
	FeatureImage       *string  `json:"feature_image"`
	ProductDescription *string  `json:"product_description"`
	ProductDetails     *string  `json:"product_details"`
	Width              *int     `json:"width"`  // millimetres
	Length             *int     `json:"length"` // millimetres
	Height             *int     `json:"height"` // millimetres
	Qty                *int     `json:"qty"`
	RRP                *float64 `json:"rrp"`
}

// ScheduleResponse represents the parse API's success payload.
type ScheduleResponse struct {
	ScheduleName string    `json:"schedule_name"`
	Products     []Product `json:"products"`
}

// ErrorResponse represents the parse API's failure payload.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

package model

// Car mirrors a row of the `cars` table. Optional columns are pointers so
// that NULL survives the round trip to JSON. CreatedAt stays a string
// because sqlite stores CURRENT_TIMESTAMP as text and clients only echo it.
type Car struct {
	ID          uint64   `json:"id"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Year        int      `json:"year"`
	Color       *string  `json:"color"`
	Price       *float64 `json:"price"`
	Mileage     *int64   `json:"mileage"`
	Description *string  `json:"description"`
	Favorite    bool     `json:"favorite"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"image_url"`
	CreatedAt   string   `json:"created_at"`
}

// CarInput is the write payload for creating or replacing a car. The
// validate tags carry the field rules; the validation package turns rule
// violations into per-field messages.
type CarInput struct {
	Brand       string   `json:"brand" validate:"required"`
	Model       string   `json:"model" validate:"required"`
	Year        int      `json:"year" validate:"required,min=1886,max=2030"`
	Color       *string  `json:"color"`
	Price       *float64 `json:"price"`
	Mileage     *int64   `json:"mileage" validate:"omitempty,min=0"`
	Description *string  `json:"description"`
	Favorite    *bool    `json:"favorite"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
}

package domain

// Address carries the fields the checkout step gate requires before
// advancing past shipping (and past payment when a distinct billing
// address is used).
type Address struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Street    string `json:"street" validate:"required"`
	Country   string `json:"country" validate:"required"`
	State     string `json:"state" validate:"required"`
	City      string `json:"city" validate:"required"`
	Postcode  string `json:"postcode" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email,omitempty"`
}

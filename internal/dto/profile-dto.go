package dto

type AddressInput struct {
	Street  *string `json:"street,omitempty" validate:"omitempty,max=200"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State   *string `json:"state,omitempty" validate:"omitempty,max=100"`
	ZipCode *string `json:"zipCode,omitempty" validate:"omitempty,max=20"`
	Country *string `json:"country,omitempty" validate:"omitempty,max=100"`
}

type UpdateUserProfile struct {
	Name    *string       `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Phone   *string       `json:"phone,omitempty" validate:"omitempty,phone"`
	Address *AddressInput `json:"address,omitempty"`
}

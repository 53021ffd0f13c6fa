package dto

import (
	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/google/uuid"
)

type OrderItemInput struct {
	Product  uuid.UUID `json:"product" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gte=1,lte=1000"`
}

type ShippingAddressInput struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Street   string `json:"street" validate:"required,max=200"`
	City     string `json:"city" validate:"required,max=100"`
	State    string `json:"state" validate:"max=100"`
	ZipCode  string `json:"zipCode" validate:"required,max=20"`
	Country  string `json:"country" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
}

type CreateOrderRequest struct {
	Items           []OrderItemInput     `json:"items" validate:"dive"`
	ShippingAddress ShippingAddressInput `json:"shippingAddress"`
	PaymentMethod   string               `json:"paymentMethod" validate:"required,max=50"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

type OrderQuery struct {
	Page   int    `query:"page" validate:"gte=1,lte=100000"`
	Limit  int    `query:"limit" validate:"gte=1,lte=100"`
	Status string `query:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
}

func DefaultOrderQuery() OrderQuery {
	return OrderQuery{Page: 1, Limit: 10}
}

type OrderListResponse struct {
	Orders      []domain.Order `json:"orders"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	Total       int64          `json:"total"`
}

func (a ShippingAddressInput) ToDomain() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName: a.FullName,
		Street:   a.Street,
		City:     a.City,
		State:    a.State,
		ZipCode:  a.ZipCode,
		Country:  a.Country,
		Phone:    a.Phone,
	}
}

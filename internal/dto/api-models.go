package dto

import "time"

// ===== Common responses =====

type APIMessage struct {
	Message string `json:"message" example:"Product deleted successfully"`
}

type APIError struct {
	Message string `json:"message" example:"Validation error"`
	Details string `json:"details,omitempty" example:"email must be a valid email"`
}

type HealthResponse struct {
	Status    string    `json:"status" example:"OK"`
	Timestamp time.Time `json:"timestamp"`
}

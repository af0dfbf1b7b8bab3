package dto

type ContactRequest struct {
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,notblank,max=200"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}

type ContactResponse struct {
	Message   string          `json:"message"`
	RateLimit RateLimitStatus `json:"rate_limit"`
}

type RateLimitStatus struct {
	RemainingRequests int   `json:"remaining_requests"`
	WindowReset       int64 `json:"window_reset"`
}

type RateLimitInfoResponse struct {
	RemainingRequests int `json:"remaining_requests"`
	MaxRequests       int `json:"max_requests"`
	WindowSeconds     int `json:"window_seconds"`
}

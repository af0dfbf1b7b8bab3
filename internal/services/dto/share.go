package dto

type ShareResponse struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	IsEnabled bool   `json:"is_enabled"`
}

type ShareStatusResponse struct {
	Status string `json:"status"`
}

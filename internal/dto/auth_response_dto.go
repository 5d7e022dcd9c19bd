package dto

import "time"

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// GoogleLoginURLResponse carries the consent URL and the state the client must echo back.
type GoogleLoginURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// ExchangeCodeRequest defines the expected JSON body for the Google exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

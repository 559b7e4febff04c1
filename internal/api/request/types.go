package request

import "encoding/json"

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	Gender   string `json:"gender"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ScoreRequest is the request body for submitting a score.
// Score is kept raw so fractions and non-numbers can be rejected precisely.
type ScoreRequest struct {
	Score json.RawMessage `json:"score"`
}

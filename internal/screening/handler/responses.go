package handler

import "veria/internal/screening"

// ScreenResponse is the upstream result passed through with the decision added.
type ScreenResponse struct {
	screening.Result
	Decision string `json:"decision"`
}

// FromResult converts a screening result and its decision to an HTTP response.
func FromResult(result *screening.Result, decision screening.Decision) *ScreenResponse {
	return &ScreenResponse{
		Result:   *result,
		Decision: decision.String(),
	}
}

package web

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the plain error body used by the framework itself.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"-"`
}

// NewError creates a 500 ErrorResponse.
func NewError(msg string) ErrorResponse {
	return ErrorResponse{Error: msg, Status: http.StatusInternalServerError}
}

func (e ErrorResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json", err
}

func (e ErrorResponse) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

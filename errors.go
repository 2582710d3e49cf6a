package lumendb

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError carries the status code and message of a failed API call. It is
// the base embedded by the specific error kinds and the fallback classification
// when the server's failure body cannot be parsed (Message then holds the raw
// body text and StatusCode the literal HTTP status).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lumendb: api error %d: %s", e.StatusCode, e.Message)
}

// AuthenticationError reports a rejected credential.
type AuthenticationError struct {
	APIError
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("lumendb: authentication error %d: %s", e.StatusCode, e.Message)
}

// ClientRequestError reports a request the server considered invalid.
type ClientRequestError struct {
	APIError
}

func (e *ClientRequestError) Error() string {
	return fmt.Sprintf("lumendb: client request error %d: %s", e.StatusCode, e.Message)
}

// ServerError reports a server-side failure.
type ServerError struct {
	APIError
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("lumendb: server error %d: %s", e.StatusCode, e.Message)
}

// errorBody is the JSON shape of API failure responses.
type errorBody struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// classifyResponse maps a failed transport response to its typed error.
// The taxonomy is closed: authentication (401), client request (4xx),
// server (everything else), and the bare APIError when the body is not the
// expected JSON shape.
func classifyResponse(httpStatus int, body []byte) error {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &APIError{StatusCode: httpStatus, Message: strings.TrimSpace(string(body))}
	}
	// A body that is valid JSON but not an object (e.g. "null") leaves parsed
	// zero and falls through to the code/message defaults below.

	code := parsed.Code
	if code == 0 {
		code = 500
	}
	message := parsed.Message
	if message == "" {
		message = "An unknown error occurred."
	}

	base := APIError{StatusCode: code, Message: message}
	switch {
	case code == 401:
		return &AuthenticationError{APIError: base}
	case code >= 400 && code < 500:
		return &ClientRequestError{APIError: base}
	default:
		return &ServerError{APIError: base}
	}
}

// Package models holds the JSON shapes served by the admin API.
package models

import (
	"errors"

	"github.com/sierrasoftworks/humane-errors-go"
)

// ErrorResponse is the JSON form of a humane.Error chain.
// @Description Structured error response with contextual advice
type ErrorResponse struct {
	// Primary error message
	// example: node has not been initialized
	Message string `json:"message"`

	// Suggestions to help resolve the error
	// example: ["the first request a node receives must be an init message"]
	Advice []string `json:"advice,omitempty"`

	// Nested error that caused this error
	Cause *ErrorResponse `json:"cause,omitempty" swaggerignore:"true"`

	// HTTP status code, not serialized
	StatusCode int `json:"-"`
}

// NewErrorResponse builds a response for message. Causes are chained so that
// the first cause is caused by the second, and so on; nil causes are skipped.
func NewErrorResponse(message string, cause ...error) *ErrorResponse {
	var chain humane.Error
	for i := len(cause) - 1; i >= 0; i-- {
		c := cause[i]
		if c == nil {
			continue
		}

		var advice []string
		if he, ok := c.(humane.Error); ok {
			advice = he.Advice()
		}

		if chain == nil {
			chain = humane.New(c.Error(), advice...)
		} else {
			chain = humane.Wrap(chain, c.Error(), advice...)
		}
	}

	if chain == nil {
		return FromHumaneError(humane.New(message))
	}
	return FromHumaneError(humane.Wrap(chain, message))
}

// FromHumaneError converts err and its cause chain.
func FromHumaneError(err humane.Error) *ErrorResponse {
	if err == nil {
		return nil
	}

	resp := &ErrorResponse{
		Message: err.Error(),
		Advice:  err.Advice(),
	}

	if cause := err.Cause(); cause != nil {
		var humaneErr humane.Error
		if errors.As(cause, &humaneErr) {
			resp.Cause = FromHumaneError(humaneErr)
		} else {
			resp.Cause = &ErrorResponse{Message: cause.Error()}
		}
	}

	return resp
}

// WithStatus sets the HTTP status the response is served with.
func (e *ErrorResponse) WithStatus(code int) *ErrorResponse {
	e.StatusCode = code
	return e
}

// AsHumaneError converts the response back into an error chain.
func (e *ErrorResponse) AsHumaneError() humane.Error {
	if e == nil {
		return nil
	}
	if e.Cause != nil {
		return humane.Wrap(e.Cause.AsHumaneError(), e.Message, e.Advice...)
	}
	return humane.New(e.Message, e.Advice...)
}

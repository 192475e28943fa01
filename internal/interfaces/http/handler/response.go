package handler

import "github.com/shopmgmt/backend/internal/interfaces/http/dto"

// The types below only describe the dto.Response envelope to swag. Handlers
// never build them; TestEnvelopeDocsMatchWireFormat keeps them in step.

// APIResponse is the envelope around a single resource
// @Description Successful response carrying one object in data
type APIResponse[T any] struct {
	Success bool `json:"success" example:"true"`
	Data    T    `json:"data,omitempty"`
}

// PagedResponse is the envelope around one page of a list
// @Description Successful list response; meta carries the page position
type PagedResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    []T       `json:"data"`
	Meta    *dto.Meta `json:"meta"`
}

// ErrorResponse is returned with every 4xx and 5xx status.
// details is only set for VALIDATION_ERROR.
// @Description Failed request; error.code is stable, error.message is for humans
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}

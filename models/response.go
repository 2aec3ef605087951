package models

import "fmt"

// ResponseStatus is the coarse outcome carried by every ServiceResponse.
type ResponseStatus int

const (
	StatusSuccess ResponseStatus = iota
	StatusFailed
)

func (s ResponseStatus) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusFailed:
		return "Failed"
	default:
		return fmt.Sprintf("ResponseStatus(%d)", int(s))
	}
}

// MarshalText encodes the status as "Success" or "Failed".
func (s ResponseStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes "Success" or "Failed".
func (s *ResponseStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Success":
		*s = StatusSuccess
	case "Failed":
		*s = StatusFailed
	default:
		return fmt.Errorf("unknown response status %q", string(b))
	}
	return nil
}

// ServiceResponse is the uniform envelope written by every endpoint.
type ServiceResponse struct {
	// Success mirrors Status as a boolean.
	Success bool `json:"success"`

	Status  ResponseStatus `json:"status"`
	Message string         `json:"message"`

	// ResponseObject is ExtractedContent on the primary path, the provider
	// payload on the fallback path, and null on failure.
	ResponseObject any `json:"responseObject"`

	// StatusCode is the HTTP status code the envelope was written with.
	StatusCode int `json:"statusCode"`
}

// NewServiceResponse builds an envelope, keeping Success and Status in step.
func NewServiceResponse(status ResponseStatus, message string, obj any, statusCode int) *ServiceResponse {
	return &ServiceResponse{
		Success:        status == StatusSuccess,
		Status:         status,
		Message:        message,
		ResponseObject: obj,
		StatusCode:     statusCode,
	}
}

// HealthInfo is the responseObject of GET /health-check.
type HealthInfo struct {
	Uptime         string `json:"uptime"`
	ActiveSessions int    `json:"activeSessions"`
	Version        string `json:"version"`
}

package newsapi

import "fmt"

// APIError is an error reported by NewsAPI, either as a non-2xx response
// or as a body whose status is not "ok".
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("newsapi: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("newsapi: %d: %s", e.StatusCode, e.Message)
}

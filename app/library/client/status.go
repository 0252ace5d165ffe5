package client

import (
	"fmt"
	"net/http"
)

// StatusError is a failed HTTP exchange. Its message is the user-facing
// text for the status.
type StatusError struct {
	Status int
	Text   string
}

func (e *StatusError) Error() string {
	return StatusMessage(e.Status, e.Text)
}

// StatusMessage returns the user-facing text for an HTTP failure.
func StatusMessage(status int, text string) string {
	switch status {
	case http.StatusBadRequest:
		return "Bad Request: Please check your input"
	case http.StatusUnauthorized:
		return "Unauthorized: Please log in"
	case http.StatusForbidden:
		return "Forbidden: You don't have permission"
	case http.StatusNotFound:
		return "Not Found: The requested resource was not found"
	case http.StatusInternalServerError:
		return "Server Error: Please try again later"
	default:
		if text == "" {
			text = http.StatusText(status)
		}
		return fmt.Sprintf("Server Error: %d - %s", status, text)
	}
}

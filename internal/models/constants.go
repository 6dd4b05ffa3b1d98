// Package models contains data types and constants for the askchat client.
package models

// Defaults for the question-answering backend
const (
	DefaultServerURL = "http://localhost:5001"
	DefaultAskPath   = "/ask"
)

// ContentTypeJSON is sent with every ask request
const ContentTypeJSON = "application/json"

// DefaultHeaders returns the headers sent with every ask request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": ContentTypeJSON,
		"Accept":       ContentTypeJSON,
		"User-Agent":   "askchat",
	}
}

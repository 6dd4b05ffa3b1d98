// Package api provides the client for the question-answering endpoint.
package api

// GJSON paths for reading ask responses.
const (
	PathAnswer   = "answer"
	PathQuestion = "question"
	PathContext  = "context"
	PathError    = "error"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 8 << 20

// maxErrorBodyBytes bounds the body excerpt kept on malformed-response errors
const maxErrorBodyBytes = 4096

package models

// AskRequest is the JSON body posted to the ask endpoint
type AskRequest struct {
	Question string `json:"question"`
}

// Answer is a decoded ask response.
// Only Text is required; the reference backend also echoes the question
// and the retrieved context it used.
type Answer struct {
	Text       string
	Question   string
	Context    string
	StatusCode int
}

// HasContext reports whether the backend returned retrieved context
func (a *Answer) HasContext() bool {
	return a != nil && a.Context != ""
}

// Package domain defines the transport types for the classify API
package domain

// ClassifyInput carries one license text to match against the corpus.
// Text caps at 1 MiB; the body reader enforces the same bound
type ClassifyInput struct {
	Text string `json:"text" validate:"required,max=1048576"`
}

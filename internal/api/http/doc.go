// Package http provides the REST handlers for htmldesk.
//
// Every file route operates on the active workspace and answers 409
// {"error": "no workspace selected"} when there is none. Domain errors map
// onto status codes through StatusFor:
//
//	ErrPathTraversal    403
//	ErrInvalidFilename  400
//	ErrFileExists       409
//	ErrNotFound         404
//	ErrNotHTML          400
//	ErrInvalidQuery     400
//	ErrInvalidPattern   400
//	ErrTooLarge         413
//
// Error bodies are always {"error": message}.
package http

package model

import "fmt"

// ServiceError indicates a collaborator call failed at the transport or auth
// layer. It is always fatal for the operation that issued it and is never
// silently swallowed.
type ServiceError struct {
	Service string // "completion", "analysis", "retrieval"
	Op      string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service: %s: %v", e.Service, e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError wraps a transport-level collaborator failure
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}

// ParseError indicates a collaborator returned data that could not be
// interpreted as the expected structured shape or as a numeric value.
// Fatal for the item being parsed; the surrounding pipeline continues with
// other items.
type ParseError struct {
	What string // what was being parsed
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError wraps a malformed-data failure
func NewParseError(what string, err error) *ParseError {
	return &ParseError{What: what, Err: err}
}

// Package service exposes the application operations over the storage and
// pipeline layers: job listing and lookup, batch processing, and the company
// provenance surface (facts, snapshots, ATS boards).
package service

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrForbidden indicates the actor lacks the role an operation requires
type ErrForbidden struct {
	Actor     string
	Operation string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("actor %s is not allowed to %s", e.Actor, e.Operation)
}

// ErrJobNotFound indicates no job matched the given identifier
type ErrJobNotFound struct {
	ID string
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %s", e.ID)
}

// ErrCompanyNotFound indicates the company does not exist
type ErrCompanyNotFound struct {
	CompanyID uuid.UUID
}

func (e *ErrCompanyNotFound) Error() string {
	return fmt.Sprintf("company not found: %s", e.CompanyID)
}

// ErrValidation indicates an input failed validation
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

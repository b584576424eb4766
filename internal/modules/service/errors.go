package service

import (
	"errors"
	"fmt"
	"strings"
)

// Service layer errors, mapped to HTTP statuses by the handlers.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// ContractIncompleteError is returned when an operation needs complete contract data.
type ContractIncompleteError struct {
	Missing []string
}

func (e *ContractIncompleteError) Error() string {
	return fmt.Sprintf("contract data incomplete: missing %s", strings.Join(e.Missing, ", "))
}

func (e *ContractIncompleteError) Unwrap() error { return ErrConflict }

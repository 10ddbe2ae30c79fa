package encode

import (
	"errors"
	"fmt"
)

// ContractError reports a programming error in the logical program handed
// to the compiler: an operation sequenced against the scheduler's state
// machine, or an operation with arguments outside its domain.
//
// Contract errors are fatal for the build that raised them. Nothing is
// emitted for a program that violates its contract.
type ContractError struct {
	// Code identifies the violation category.
	Code ContractErrorCode

	// Message is a human-readable description.
	Message string

	// State is the scheduler state at the point of violation.
	State State

	// OpIndex is the index of the offending operation in the program.
	OpIndex int
}

// ContractErrorCode categorizes contract violations.
type ContractErrorCode string

const (
	// ErrCodeBadSequence indicates an operation illegal in the current state.
	ErrCodeBadSequence ContractErrorCode = "BAD_SEQUENCE"

	// ErrCodeBadArgument indicates an operation argument outside its domain.
	ErrCodeBadArgument ContractErrorCode = "BAD_ARGUMENT"
)

// Error implements the error interface.
func (e *ContractError) Error() string {
	if e.State != "" {
		return fmt.Sprintf("%s: %s (op=%d, state=%s)", e.Code, e.Message, e.OpIndex, e.State)
	}
	return fmt.Sprintf("%s: %s (op=%d)", e.Code, e.Message, e.OpIndex)
}

// IsContractError reports whether err is (or wraps) a ContractError.
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

func newSequenceError(state State, opIndex int, msg string) *ContractError {
	return &ContractError{
		Code:    ErrCodeBadSequence,
		Message: msg,
		State:   state,
		OpIndex: opIndex,
	}
}

func newArgumentError(opIndex int, msg string) *ContractError {
	return &ContractError{
		Code:    ErrCodeBadArgument,
		Message: msg,
		OpIndex: opIndex,
	}
}

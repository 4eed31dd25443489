package wasm

import (
	"context"
	"errors"
	"fmt"
	"time"

	abi "github.com/woxQAQ/screeps-go/api/wasm"
	"github.com/woxQAQ/screeps-go/pkg/objectid"
	"github.com/woxQAQ/screeps-go/pkg/position"
)

// Status is the failure code host functions report to guests. Host functions
// return a non-negative value on success and -Status on failure.
type Status int32

const (
	StatusOK            Status = 0
	StatusInvalidLength Status = abi.StatusInvalidLength
	StatusInvalidDigit  Status = abi.StatusInvalidDigit
	StatusOutOfBounds   Status = abi.StatusOutOfBounds
	StatusMemoryFault   Status = abi.StatusMemoryFault
	StatusInternal      Status = abi.StatusInternal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidLength:
		return "invalid length"
	case StatusInvalidDigit:
		return "invalid digit"
	case StatusOutOfBounds:
		return "out of bounds"
	case StatusMemoryFault:
		return "memory fault"
	case StatusInternal:
		return "internal error"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// statusOf maps a codec or guest memory error to the status reported to
// guests. Anything else is StatusInternal.
func statusOf(err error) Status {
	var memErr *MemoryAccessError
	var fnErr *FunctionNotFoundError
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, objectid.ErrInvalidLength):
		return StatusInvalidLength
	case errors.Is(err, objectid.ErrInvalidDigit):
		return StatusInvalidDigit
	case errors.Is(err, position.ErrOutOfBounds):
		return StatusOutOfBounds
	case errors.As(err, &memErr), errors.As(err, &fnErr):
		return StatusMemoryFault
	default:
		return StatusInternal
	}
}

// CompilationError occurs when Wasm module compilation fails
type CompilationError struct {
	ModuleName string
	Err        error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("failed to compile Wasm module '%s': %v", e.ModuleName, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// InstantiationError occurs when module instantiation fails
type InstantiationError struct {
	ModuleName string
	InstanceID string
	Err        error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("failed to instantiate module '%s' (instance: %s): %v",
		e.ModuleName, e.InstanceID, e.Err)
}

func (e *InstantiationError) Unwrap() error {
	return e.Err
}

// InstanceLimitError occurs when the runtime already tracks the configured
// maximum number of instances.
type InstanceLimitError struct {
	Limit int
}

func (e *InstanceLimitError) Error() string {
	return fmt.Sprintf("instance limit reached (%d)", e.Limit)
}

// ModuleNotFoundError occurs when a module is not in cache
type ModuleNotFoundError struct {
	ModuleName string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module '%s' not found in cache", e.ModuleName)
}

// FunctionNotFoundError occurs when an exported function is missing
type FunctionNotFoundError struct {
	ModuleName   string
	FunctionName string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("function '%s' not found in module '%s'",
		e.FunctionName, e.ModuleName)
}

// MemoryAccessError occurs when memory operations fail
type MemoryAccessError struct {
	Operation string
	Address   uint32
	Length    uint32
	Err       error
}

func (e *MemoryAccessError) Error() string {
	return fmt.Sprintf("memory access failed (op=%s, addr=%d, len=%d): %v",
		e.Operation, e.Address, e.Length, e.Err)
}

func (e *MemoryAccessError) Unwrap() error {
	return e.Err
}

// HostFunctionError describes a failed host import call. It is what debug
// logging reports for a failure.
type HostFunctionError struct {
	FunctionName string
	Err          error
}

func (e *HostFunctionError) Error() string {
	return fmt.Sprintf("host function '%s' failed: %v", e.FunctionName, e.Err)
}

func (e *HostFunctionError) Unwrap() error {
	return e.Err
}

// TimeoutError occurs when Wasm execution times out
type TimeoutError struct {
	FunctionName string
	Duration     time.Duration
}

func (e *TimeoutError) Error() string {
	if e.FunctionName == "" {
		return fmt.Sprintf("Wasm execution timed out after %v", e.Duration)
	}
	return fmt.Sprintf("Wasm function '%s' timed out after %v", e.FunctionName, e.Duration)
}

// Unwrap lets callers match timeouts with errors.Is(err, context.DeadlineExceeded).
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

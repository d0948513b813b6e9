package atvm

import (
	"fmt"

	"github.com/colorfulnotion/atvm/aterrors"
)

// Fault is the failure code of a single step.
type Fault int8

const (
	FaultOverflow            Fault = -1
	FaultInvalidOp           Fault = -2
	FaultInvalidErrorHandler Fault = -3
)

func (f Fault) Code() int {
	return int(f)
}

func (f Fault) Error() string {
	switch f {
	case FaultOverflow:
		return "overflow"
	case FaultInvalidOp:
		return "invalid op"
	case FaultInvalidErrorHandler:
		return "invalid error handler"
	}
	return fmt.Sprintf("fault %d", int(f))
}

// Unwrap maps the fault onto its aterrors sentinel so errors.Is works on either.
func (f Fault) Unwrap() error {
	switch f {
	case FaultOverflow:
		return aterrors.ErrVOverflow
	case FaultInvalidOp:
		return aterrors.ErrVInvalidOp
	case FaultInvalidErrorHandler:
		return aterrors.ErrVInvalidErrorHandler
	}
	return nil
}

// faultOf converts a decoder error into a Fault.
func faultOf(err error) Fault {
	switch err {
	case aterrors.ErrVInvalidOp:
		return FaultInvalidOp
	case aterrors.ErrVInvalidErrorHandler:
		return FaultInvalidErrorHandler
	}
	return FaultOverflow
}

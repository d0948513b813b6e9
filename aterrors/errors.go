package aterrors

import (
	"errors"
	"strings"
)

// Machine (V) Errors
var (
	ErrVOverflow            = errors.New("V1|Overflow: Address, segment or stack bound violated.")
	ErrVInvalidOp           = errors.New("V2|InvalidOp: Unrecognized opcode or invalid jump target.")
	ErrVInvalidErrorHandler = errors.New("V3|InvalidErrorHandler: Error handler address is not an instruction start.")
	ErrVStaleJumpTable      = errors.New("V4|StaleJumpTable: Jump table must be rebuilt after a code or size change.")
	ErrVFinished            = errors.New("V5|Finished: Machine has finished and must be reset before resuming.")
	ErrVOutOfFuel           = errors.New("V6|OutOfFuel: Balance exhausted.")
	ErrVBadPageCount        = errors.New("V7|BadPageCount: Segment page count must be positive.")
	ErrVCodeTooLarge        = errors.New("V8|CodeTooLarge: Bytes do not fit in the code segment at that offset.")
	ErrVDataTooLarge        = errors.New("V9|DataTooLarge: Bytes do not fit in the data segment at that offset.")
)

// Snapshot (S) Errors
var (
	ErrSTruncated      = errors.New("S1|Truncated: Snapshot ended before all fields were read.")
	ErrSBadPageCount   = errors.New("S2|BadPageCount: Snapshot carries a non-positive or oversized page count.")
	ErrSDigestMismatch = errors.New("S3|DigestMismatch: Stored snapshot does not match its digest.")
	ErrSNotFound       = errors.New("S4|NotFound: No snapshot stored under that name.")
	ErrSBadFixture     = errors.New("S5|BadFixture: Fixture entry has no values or a cursor past its values.")
	ErrSTrailingBytes  = errors.New("S6|TrailingBytes: Snapshot has bytes after the last fixture entry.")
	ErrSBadStackDepth  = errors.New("S7|BadStackDepth: Snapshot stack depth exceeds the stack size.")
)

// Console (C) Errors
var (
	ErrCInvalidCommand = errors.New("C1|InvalidCommand: Command not recognized.")
	ErrCBadHex         = errors.New("C2|BadHex: Byte values must be an even number of hex digits.")
	ErrCBadNumber      = errors.New("C3|BadNumber: Value must be decimal or 0x-prefixed hex.")
	ErrCBadArgument    = errors.New("C4|BadArgument: Unexpected argument for command.")
	ErrCNoStore        = errors.New("C5|NoStore: No snapshot store configured.")
)

// GetErrorName extracts the error name from the error message.
func GetErrorName(err error) string {
	if err == nil {
		return "No Error"
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "|") || !strings.Contains(errStr, ":") {
		return errStr
	}
	parts := strings.SplitN(errStr, "|", 2)
	if len(parts) < 2 {
		return errStr
	}
	nameDesc := parts[1]
	// Split on ':' to separate the error name from its description.
	nameParts := strings.SplitN(nameDesc, ":", 2)
	return strings.TrimSpace(nameParts[0])
}

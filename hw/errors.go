package hw

import (
	"errors"
	"fmt"
)

var (
	ErrNotConnected  = errors.New("component not connected")
	ErrInvalidOpcode = errors.New("invalid opcode")
)

// A DecodeError is returned by CPU.Execute when the fetched opcode has no
// entry in the opcode table.
type DecodeError struct {
	PC     uint16
	Opcode uint8
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("opcode $%02X at $%04X: %s", e.Opcode, e.PC, ErrInvalidOpcode)
}

func (e *DecodeError) Unwrap() error { return ErrInvalidOpcode }

// Package export writes compiled programs as source code for other tools:
// a Qiskit Python script or an OpenQASM 2.0 file.
package export

import (
	"errors"
	"fmt"
	"strings"

	"qcompose/internal/circuit"
)

var ErrUnsupported = errors.New("operation not expressible in target format")

// Format selects an output language.
type Format string

const (
	FormatQiskit Format = "qiskit"
	FormatQASM   Format = "qasm"
)

// Write renders p in the given format.
func Write(f Format, p circuit.Program) (string, error) {
	switch f {
	case FormatQiskit:
		return Qiskit(p), nil
	case FormatQASM:
		return QASM(p)
	}
	return "", fmt.Errorf("unknown export format %q", f)
}

// Extension is the file suffix for f.
func (f Format) Extension() string {
	if f == FormatQASM {
		return ".qasm"
	}
	return ".py"
}

func joinInts(xs []int, format string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf(format, x)
	}
	return strings.Join(parts, ", ")
}

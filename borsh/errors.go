package borsh

import (
	"fmt"
	"strings"
)

// ErrorKind classifies codec failures. An ErrorKind is itself an error so
// callers can match with errors.Is(err, borsh.TypeMismatch).
type ErrorKind uint8

const (
	SchemaCorrupt ErrorKind = iota + 1
	UnresolvedTypeReference
	TypeMismatch
	FieldMissing
	UnknownVariant
	InvalidDiscriminant
	LengthMismatch
	NumericOverflow
	NumericPrecisionLoss
	UnexpectedEOF
	InvalidUTF8
	TrailingBytes
	UnsupportedType
	NoSchemaPresent
)

func (k ErrorKind) String() string {
	switch k {
	case SchemaCorrupt:
		return "schema corrupt"
	case UnresolvedTypeReference:
		return "unresolved type reference"
	case TypeMismatch:
		return "type mismatch"
	case FieldMissing:
		return "field missing"
	case UnknownVariant:
		return "unknown variant"
	case InvalidDiscriminant:
		return "invalid discriminant"
	case LengthMismatch:
		return "length mismatch"
	case NumericOverflow:
		return "numeric overflow"
	case NumericPrecisionLoss:
		return "numeric precision loss"
	case UnexpectedEOF:
		return "unexpected end of input"
	case InvalidUTF8:
		return "invalid utf-8"
	case TrailingBytes:
		return "trailing bytes"
	case UnsupportedType:
		return "unsupported type"
	case NoSchemaPresent:
		return "no schema present"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Error implements error.
func (k ErrorKind) Error() string {
	return "borsh: " + k.String()
}

// Error is a codec failure with enough context to locate it in the input.
type Error struct {
	Kind   ErrorKind
	Path   string // value path, e.g. $.items[2].name; empty for schema errors
	Offset int    // byte offset into the input, -1 when not applicable
	Msg    string
	Err    error // underlying cause, if any
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("borsh: ")
	sb.WriteString(e.Kind.String())
	if e.Path != "" {
		sb.WriteString(" at ")
		sb.WriteString(e.Path)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&sb, " (offset %d)", e.Offset)
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the ErrorKind carried by err, or 0 if err is not a codec error.
func KindOf(err error) ErrorKind {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Kind
		case ErrorKind:
			return e
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				if k := KindOf(inner); k != 0 {
					return k
				}
			}
			return 0
		default:
			return 0
		}
	}
	return 0
}

func newError(kind ErrorKind, path string, offset int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Path: path, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func schemaError(kind ErrorKind, format string, args ...interface{}) *Error {
	return newError(kind, "", -1, format, args...)
}

func indexPath(base string, i int) string {
	if base == "" {
		base = "$"
	}
	return fmt.Sprintf("%s[%d]", base, i)
}

// MaxDepth bounds how deeply values may nest during encoding and decoding.
const MaxDepth = 1024

// valuePath is a value location kept as a chain of steps back to the root.
// The nil path is the root. Rendering happens only when an error is built.
type valuePath struct {
	parent *valuePath
	name   string
	index  int // -1 for a named step
	depth  int
}

func (p *valuePath) field(name string) *valuePath {
	return &valuePath{parent: p, name: name, index: -1, depth: p.level() + 1}
}

func (p *valuePath) at(i int) *valuePath {
	return &valuePath{parent: p, index: i, depth: p.level() + 1}
}

func (p *valuePath) level() int {
	if p == nil {
		return 0
	}
	return p.depth
}

func (p *valuePath) String() string {
	if p == nil {
		return "$"
	}
	steps := make([]*valuePath, 0, p.depth)
	for s := p; s != nil; s = s.parent {
		steps = append(steps, s)
	}
	var sb strings.Builder
	sb.WriteByte('$')
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		if s.index < 0 {
			sb.WriteByte('.')
			sb.WriteString(s.name)
		} else {
			fmt.Fprintf(&sb, "[%d]", s.index)
		}
	}
	return sb.String()
}

func depthError(p *valuePath, offset int) *Error {
	return newError(UnsupportedType, p.String(), offset, "nesting deeper than %d levels", MaxDepth)
}

package wire

import "fmt"

// ErrorKind enumerates the ways a raw packet can fail to decode (spec
// §4.1).
type ErrorKind int

const (
	ErrBadMagic ErrorKind = iota
	ErrBadLength
	ErrUnaligned
	ErrCrcMismatch
	ErrUnknownType
	ErrTruncatedBody
	ErrHmacMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case ErrBadMagic:
		return "BadMagic"
	case ErrBadLength:
		return "BadLength"
	case ErrUnaligned:
		return "Unaligned"
	case ErrCrcMismatch:
		return "CrcMismatch"
	case ErrUnknownType:
		return "UnknownType"
	case ErrTruncatedBody:
		return "TruncatedBody"
	case ErrHmacMismatch:
		return "HmacMismatch"
	default:
		return "Unknown"
	}
}

// CodecError reports why a packet was rejected (spec §4.1).
type CodecError struct {
	Kind   ErrorKind
	Detail string
}

func (e *CodecError) Error() string {
	if e.Detail == "" {
		return "wire: " + e.Kind.String()
	}
	return fmt.Sprintf("wire: %s: %s", e.Kind, e.Detail)
}

func newErr(kind ErrorKind, detail string) *CodecError {
	return &CodecError{Kind: kind, Detail: detail}
}

package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Message prefixes identify the error kinds of the transform pipeline. Every
// kind is an errbuilder error; the prefix distinguishes kinds that share a
// code.
const (
	MsgMalformedArchive = "malformed archive"
	MsgMalformedPath    = "malformed path"
	MsgValidation       = "validation failed"
)

// MalformedArchiveError reports an archive container that cannot be decoded.
func MalformedArchiveError(cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(MsgMalformedArchive).
		WithCause(cause)
}

// MalformedPathError reports a path that does not map to an identifier.
func MalformedPathError(path string, reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s %q: %s", MsgMalformedPath, path, reason))
}

// ValidationError reports a value of the wrong shape.
func ValidationError(reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: %s", MsgValidation, reason))
}

func IsMalformedArchive(err error) bool {
	return hasMessagePrefix(err, MsgMalformedArchive)
}

func IsMalformedPath(err error) bool {
	return hasMessagePrefix(err, MsgMalformedPath)
}

func IsValidation(err error) bool {
	return hasMessagePrefix(err, MsgValidation)
}

func hasMessagePrefix(err error, prefix string) bool {
	var builder *errbuilder.ErrBuilder
	if !errors.As(err, &builder) {
		return false
	}
	return strings.HasPrefix(builder.Msg, prefix)
}

package model

import (
	"errors"
	"fmt"
)

// Kind classifies why an invocation was refused.
type Kind int

const (
	KindUsage Kind = iota + 1
	KindConfig
	KindResolution
	KindAuthorization
	KindSystem
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindConfig:
		return "config"
	case KindResolution:
		return "resolution"
	case KindAuthorization:
		return "authorization"
	case KindSystem:
		return "system"
	default:
		return "unknown"
	}
}

// ExitCode maps a kind onto sysexits(3).
func (k Kind) ExitCode() int {
	switch k {
	case KindUsage:
		return 64 // EX_USAGE
	case KindResolution:
		return 67 // EX_NOUSER
	case KindSystem:
		return 71 // EX_OSERR
	case KindAuthorization:
		return 77 // EX_NOPERM
	case KindConfig:
		return 78 // EX_CONFIG
	default:
		return 1
	}
}

// Error is a refusal. Every failure that aborts an invocation is one.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Usagef reports a malformed invocation.
func Usagef(format string, args ...any) error {
	return newError(KindUsage, format, args...)
}

// Configf reports an unreadable or invalid configuration.
func Configf(format string, args ...any) error {
	return newError(KindConfig, format, args...)
}

// Resolutionf reports a destination account that cannot be determined.
func Resolutionf(format string, args ...any) error {
	return newError(KindResolution, format, args...)
}

// Deniedf reports a security refusal. Never downgrade these.
func Deniedf(format string, args ...any) error {
	return newError(KindAuthorization, format, args...)
}

// Systemf reports a failed system call.
func Systemf(format string, args ...any) error {
	return newError(KindSystem, format, args...)
}

// KindOf returns the kind of err, or 0 if err is not a refusal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}

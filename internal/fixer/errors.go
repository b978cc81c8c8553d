package fixer

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrorReason categorizes why a replacement failed
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorFileInUse
	ErrorFileVanished
	ErrorCrossDevice
	ErrorFileModified
	ErrorUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "Permission denied"
	case ErrorFileInUse:
		return "File is in use"
	case ErrorFileVanished:
		return "File vanished"
	case ErrorCrossDevice:
		return "Different filesystem"
	case ErrorFileModified:
		return "File changed since scan"
	case ErrorUnknown:
		return "Unknown error"
	default:
		return "Unspecified error"
	}
}

// ReplaceError represents a detailed replacement error
type ReplaceError struct {
	Path      string
	Reason    ErrorReason
	Original  error
	Retryable bool
}

// Error implements the error interface
func (e *ReplaceError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

// UserMessage returns a user-friendly error message
func (e *ReplaceError) UserMessage() string {
	switch e.Reason {
	case ErrorPermissionDenied:
		return fmt.Sprintf("⚠️  Permission denied: %s", e.Path)
	case ErrorFileInUse:
		return fmt.Sprintf("⚠️  File is being used: %s (close the application and try again)", e.Path)
	case ErrorFileVanished:
		return fmt.Sprintf("ℹ️  File no longer exists: %s", e.Path)
	case ErrorCrossDevice:
		return fmt.Sprintf("⚠️  Cannot hardlink across filesystems: %s", e.Path)
	case ErrorFileModified:
		return fmt.Sprintf("⚠️  Skipped %s: file changed since the scan", e.Path)
	default:
		return fmt.Sprintf("❌ Error replacing %s: %v", e.Path, e.Original)
	}
}

// CategorizeError analyzes an error and returns a categorized ReplaceError
func CategorizeError(path string, err error) *ReplaceError {
	if err == nil {
		return nil
	}

	repErr := &ReplaceError{
		Path:     path,
		Original: err,
		Reason:   ErrorUnknown,
	}

	if os.IsNotExist(err) {
		repErr.Reason = ErrorFileVanished
		return repErr
	}

	if os.IsPermission(err) {
		repErr.Reason = ErrorPermissionDenied
		return repErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			repErr.Reason = ErrorPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			repErr.Reason = ErrorFileInUse
			repErr.Retryable = true
		case syscall.ENOENT:
			repErr.Reason = ErrorFileVanished
		case syscall.EXDEV:
			repErr.Reason = ErrorCrossDevice
		}
	}

	return repErr
}

// GroupErrorsByReason groups errors for summary display
func GroupErrorsByReason(errs []*ReplaceError) map[ErrorReason][]*ReplaceError {
	grouped := make(map[ErrorReason][]*ReplaceError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary creates a user-friendly summary of all errors
func FormatErrorSummary(errs []*ReplaceError) string {
	if len(errs) == 0 {
		return ""
	}

	grouped := GroupErrorsByReason(errs)
	summary := fmt.Sprintf("\n%d file(s) could not be replaced:\n", len(errs))

	for reason, group := range grouped {
		summary += fmt.Sprintf("\n%s (%d):\n", reason, len(group))
		shown := group
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, err := range shown {
			summary += fmt.Sprintf("  • %s\n", err.Path)
		}
		if len(group) > 5 {
			summary += fmt.Sprintf("  ... and %d more\n", len(group)-5)
		}
	}

	return summary
}

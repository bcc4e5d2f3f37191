package txbuilder

import "fmt"

// ErrorKind classifies a BuildError so callers can switch on failure category
// without type-asserting a family of distinct error structs.
type ErrorKind int

const (
	ErrInsufficientFunds ErrorKind = iota
	ErrMissingNativeAsset
	ErrNativeAssetLocked
	ErrInsufficientChange
	ErrTransactionTooLarge
	ErrBadConfiguration
	ErrInvalidInput
	ErrInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInsufficientFunds:
		return "InsufficientFunds"
	case ErrMissingNativeAsset:
		return "MissingNativeAsset"
	case ErrNativeAssetLocked:
		return "NativeAssetLocked"
	case ErrInsufficientChange:
		return "InsufficientChange"
	case ErrTransactionTooLarge:
		return "TransactionTooLarge"
	case ErrBadConfiguration:
		return "BadConfiguration"
	case ErrInvalidInput:
		return "InvalidInput"
	case ErrInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// BuildError is the single error type surfaced by the balancing engine.
// The Unit, Required, Available, Attempt and Remediation fields carry
// structured context so callers can build remediations without parsing the
// message.
type BuildError struct {
	Kind        ErrorKind
	Message     string
	Unit        string
	Required    string
	Available   string
	Attempt     int
	Remediation []string
	Wrapped     error
}

func (e *BuildError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if len(e.Remediation) > 0 {
		msg += " (try: "
		for i, r := range e.Remediation {
			if i > 0 {
				msg += "; "
			}
			msg += r
		}
		msg += ")"
	}
	return msg
}

func (e *BuildError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a sentinel for e's Kind, so callers can write
// errors.Is(err, txbuilder.ErrNativeAssetLockedSentinel) instead of a type
// assertion plus a Kind switch. Comparison is by Kind only: two *BuildError
// values with the same Kind but different Message/Attempt/etc. are still
// considered the same error for errors.Is purposes.
func (e *BuildError) Is(target error) bool {
	other, ok := target.(*BuildError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// Sentinel BuildErrors, one per ErrorKind, for use with errors.Is. Each
// carries only a Kind, the one field compared by (*BuildError).Is.
var (
	ErrInsufficientFundsSentinel   = &BuildError{Kind: ErrInsufficientFunds}
	ErrMissingNativeAssetSentinel  = &BuildError{Kind: ErrMissingNativeAsset}
	ErrNativeAssetLockedSentinel   = &BuildError{Kind: ErrNativeAssetLocked}
	ErrInsufficientChangeSentinel  = &BuildError{Kind: ErrInsufficientChange}
	ErrTransactionTooLargeSentinel = &BuildError{Kind: ErrTransactionTooLarge}
	ErrBadConfigurationSentinel    = &BuildError{Kind: ErrBadConfiguration}
	ErrInvalidInputSentinel        = &BuildError{Kind: ErrInvalidInput}
	ErrInternalSentinel            = &BuildError{Kind: ErrInternal}
)

func newBuildError(kind ErrorKind, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapBuildError(kind ErrorKind, err error, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

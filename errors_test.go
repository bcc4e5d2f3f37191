package txbuilder

import (
	"errors"
	"fmt"
	"testing"
)

func TestBuildErrorIsMatchesByKindOnly(t *testing.T) {
	err := newBuildError(ErrNativeAssetLocked, "unit %s locked with no headroom", "abc123")
	if !errors.Is(err, ErrNativeAssetLockedSentinel) {
		t.Error("expected errors.Is to match the sentinel for the same Kind")
	}
	if errors.Is(err, ErrInsufficientFundsSentinel) {
		t.Error("expected errors.Is not to match a sentinel for a different Kind")
	}
}

func TestBuildErrorIsThroughWrappedChain(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := wrapBuildError(ErrInternal, cause, "build failed")
	wrapped := fmt.Errorf("recorder build: %w", err)
	if !errors.Is(wrapped, ErrInternalSentinel) {
		t.Error("expected errors.Is to see through fmt.Errorf wrapping to the BuildError sentinel")
	}
}

func TestBuildErrorAsRecoversFields(t *testing.T) {
	err := &BuildError{
		Kind:      ErrInsufficientFunds,
		Message:   "short by 500000 lovelace",
		Unit:      LovelaceUnit,
		Required:  "2000000",
		Available: "1500000",
	}
	var target error = fmt.Errorf("build failed: %w", err)

	var be *BuildError
	if !errors.As(target, &be) {
		t.Fatal("expected errors.As to recover the *BuildError")
	}
	if be.Unit != LovelaceUnit || be.Required != "2000000" {
		t.Error("errors.As recovered a BuildError with the wrong fields")
	}
}

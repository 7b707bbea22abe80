package store

import (
	"testing"
)

// Compile-time checks that the interface is importable and usable.
func TestAccountStoreInterfaceExists(t *testing.T) {
	// This test simply validates that the AccountStore interface compiles
	// and the sentinel errors are accessible.
	_ = ErrDuplicateEmail
	_ = ErrConcurrentModification
	_ = ErrInsufficientFunds
	_ = CreateAccountParams{}
	_ = ApplyAccrualParams{}

	// Ensure the interface is non-nil type.
	var _ AccountStore
}

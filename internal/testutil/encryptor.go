package testutil

import (
	"photo-archive/internal/archive"
	"photo-archive/internal/encryption"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() archive.Encryptor {
	return encryption.NewTestEncryptor()
}

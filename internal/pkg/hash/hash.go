package hash

// Hash hashes plaintext secrets and verifies plaintext against stored hashes.
type Hash interface {
	// Hash returns the hash of the plaintext string.
	Hash(str string) ([]byte, error)
	// Verify reports whether the plaintext string matches the given hash.
	Verify(hashed, str string) bool
}

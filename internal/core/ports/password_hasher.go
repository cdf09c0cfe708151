package ports

// PasswordHasher provides one-way hash-and-verify primitives.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
	// Unusable returns a stored value that no password verifies against.
	Unusable() string
}

package hash

// Hash produces a digest of a plaintext and verifies plaintexts against it.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}

const (
	DriverBcrypt   = "bcrypt"
	DriverArgon2id = "argon2id"
)

// AngelaMos | 2026
// credentials.go

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/carterperez-dev/orderdesk/internal/config"
)

// CredentialVerifier decides how a stored password is produced and checked.
// Callers never compare passwords themselves.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(password, stored string) (bool, error)
}

// PasswordHasher is the write half of CredentialVerifier, used by the
// components that create users.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

func NewCredentialVerifier(scheme string) (CredentialVerifier, error) {
	switch scheme {
	case config.PasswordSchemePlain, "":
		return PlainVerifier{}, nil
	case config.PasswordSchemeArgon2id:
		return NewArgon2Verifier(), nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// PlainVerifier stores passwords as given and compares them verbatim.
type PlainVerifier struct{}

func (PlainVerifier) Hash(password string) (string, error) {
	return password, nil
}

func (PlainVerifier) Verify(password, stored string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1, nil
}

// Argon2Verifier stores argon2id hashes in the PHC string format.
type Argon2Verifier struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

func NewArgon2Verifier() *Argon2Verifier {
	return &Argon2Verifier{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		KeyLen:  32,
		SaltLen: 16,
	}
}

func (a *Argon2Verifier) Hash(password string) (string, error) {
	salt := make([]byte, a.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, a.Time, a.Memory, a.Threads, a.KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.Memory,
		a.Time,
		a.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports false, without an error, for stored values that are not
// argon2id hashes; a plaintext row left over from before a scheme switch
// simply fails to log in.
func (a *Argon2Verifier) Verify(password, stored string) (bool, error) {
	if !strings.HasPrefix(stored, "$argon2id$") {
		return false, nil
	}

	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("incompatible version: %d", version)
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, fmt.Errorf("invalid params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}

	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}

	//nolint:gosec // G115: argon2 key length is always small
	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

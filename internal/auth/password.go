package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters used for new hashes. Verification honors the
// parameters embedded in the stored string.
const (
	argonVersion     = 19 // argon2.Version (0x13)
	argonMemoryKiB   = 64 * 1024
	argonIterations  = 3
	argonParallelism = 2
	argonSaltLength  = 16
	argonKeyLength   = 32
)

// HashPassword returns a PHC-style argon2id hash:
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<key_b64>
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonIterations, argonMemoryKiB, argonParallelism, argonKeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argonVersion, argonMemoryKiB, argonIterations, argonParallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifyPassword reports whether password matches the encoded hash.
// Malformed or unsupported hashes verify false; they never panic or
// surface an error to the caller.
func VerifyPassword(password, encoded string) bool {
	mem, iter, par, salt, expected, ok := decodeHash(encoded)
	if !ok {
		return false
	}

	key := argon2.IDKey([]byte(password), salt, iter, mem, par, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1
}

func decodeHash(encoded string) (mem, iter uint32, par uint8, salt, key []byte, ok bool) {
	// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" || parts[2] != "v=19" {
		return 0, 0, 0, nil, nil, false
	}

	var m, t, p uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return 0, 0, 0, nil, nil, false
	}
	if m == 0 || t == 0 || p == 0 || p > 255 {
		return 0, 0, 0, nil, nil, false
	}
	// Refuse hashes with parameters far above our own settings so an
	// attacker-supplied string cannot pin a core during verification.
	if m > argonMemoryKiB*2 || t > argonIterations*2 {
		return 0, 0, 0, nil, nil, false
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) < 8 || len(salt) > 64 {
		return 0, 0, 0, nil, nil, false
	}
	key, err = b64.DecodeString(parts[5])
	if err != nil || len(key) < 16 || len(key) > 128 {
		return 0, 0, 0, nil, nil, false
	}

	return m, t, uint8(p), salt, key, true
}

// DummyHash is verified against on login when no account matches, so the
// not-found path costs the same hash computation as a wrong password.
func DummyHash() string {
	hash, err := HashPassword("edu-be-dummy-credential")
	if err != nil {
		// rand.Read failing means the process is in no state to serve.
		panic(err)
	}
	return hash
}

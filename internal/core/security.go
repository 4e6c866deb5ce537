// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters, RFC 9106 low-memory profile.
type hashParams struct {
	memory  uint32
	passes  uint32
	lanes   uint8
	saltLen int
	keyLen  uint32
}

var defaultParams = hashParams{
	memory:  64 * 1024,
	passes:  1,
	lanes:   4,
	saltLen: 16,
	keyLen:  32,
}

var errBadHashFormat = errors.New("malformed password hash")

func HashPassword(password string) (string, error) {
	return hashWithParams(password, defaultParams)
}

func hashWithParams(password string, p hashParams) (string, error) {
	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.passes, p.memory, p.lanes, p.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.memory, p.passes, p.lanes,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	p, salt, key, err := parseHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, p.passes, p.memory, p.lanes, p.keyLen)

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// VerifyPasswordWithRehash additionally returns a fresh hash when the
// stored one was produced with outdated parameters. An empty string
// means the stored hash is still current.
func VerifyPasswordWithRehash(password, encodedHash string) (bool, string, error) {
	valid, err := VerifyPassword(password, encodedHash)
	if err != nil || !valid {
		return valid, "", err
	}

	if !staleHash(encodedHash) {
		return true, "", nil
	}

	fresh, err := HashPassword(password)
	if err != nil {
		// login already succeeded; the upgrade can wait
		return true, "", nil
	}

	return true, fresh, nil
}

// decoyHash is verified against when no user exists, so a login probe
// costs the same whether or not the email is registered.
var decoyHash = sync.OnceValue(func() string {
	h, err := HashPassword("decoy-password-for-constant-time-login")
	if err != nil {
		panic(fmt.Sprintf("core: build decoy hash: %v", err))
	}
	return h
})

func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, string, error) {
	stored := decoyHash()
	if encodedHash != nil && *encodedHash != "" {
		stored = *encodedHash
	}

	valid, fresh, err := VerifyPasswordWithRehash(password, stored)

	if encodedHash == nil || *encodedHash == "" {
		return false, "", nil
	}

	return valid, fresh, err
}

func parseHash(encoded string) (hashParams, []byte, []byte, error) {
	var p hashParams

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, errBadHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, errBadHashFormat
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("argon2 version %d not supported", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&p.memory, &p.passes, &p.lanes); err != nil {
		return p, nil, nil, errBadHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, errBadHashFormat
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, errBadHashFormat
	}

	p.saltLen = len(salt)
	p.keyLen = uint32(len(key)) //nolint:gosec // key is 32 bytes

	return p, salt, key, nil
}

func staleHash(encoded string) bool {
	p, _, _, err := parseHash(encoded)
	if err != nil {
		return true
	}

	return p.memory != defaultParams.memory ||
		p.passes != defaultParams.passes ||
		p.lanes != defaultParams.lanes ||
		p.keyLen != defaultParams.keyLen
}

func GenerateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

func GenerateRefreshToken() (string, error) {
	return GenerateSecureToken(32)
}

// HashToken is for refresh tokens, which are high-entropy random values;
// a single unsalted SHA-256 is enough to keep the stored form useless.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func CompareTokenHash(token, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashToken(token)), []byte(hash)) == 1
}
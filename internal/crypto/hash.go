package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

var (
	ErrInvalidHashFormat   = errors.New("invalid encoded hash format")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	ErrUnknownScheme       = errors.New("unknown password hash scheme")
)

// Scheme names a password hashing algorithm by its modular-crypt identifier.
type Scheme string

const (
	SchemePBKDF2SHA256 Scheme = "pbkdf2-sha256"
	SchemeArgon2id     Scheme = "argon2id"
)

// ParseScheme validates a configured scheme name.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case SchemePBKDF2SHA256, "":
		return SchemePBKDF2SHA256, nil
	case SchemeArgon2id:
		return SchemeArgon2id, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// PBKDF2Params configures PBKDF2-SHA256 hashing.
type PBKDF2Params struct {
	Rounds     int
	SaltLength int
	KeyLength  int
}

// DefaultPBKDF2Params matches the passlib pbkdf2_sha256 defaults the user table was populated with.
func DefaultPBKDF2Params() PBKDF2Params {
	return PBKDF2Params{
		Rounds:     29000,
		SaltLength: 16,
		KeyLength:  32,
	}
}

// HashParams configures the Argon2id hashing parameters.
type HashParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultHashParams returns recommended Argon2id parameters for password hashing.
func DefaultHashParams() HashParams {
	return HashParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// ab64 is passlib's "adapted base64": standard alphabet with '.' instead of '+', no padding.
var ab64 = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789./").WithPadding(base64.NoPadding)

// HashPassword hashes a password with PBKDF2-SHA256.
func HashPassword(password string) (string, error) {
	return HashPasswordWith(SchemePBKDF2SHA256, password)
}

// HashPasswordWith hashes a password with the given scheme.
func HashPasswordWith(scheme Scheme, password string) (string, error) {
	switch scheme {
	case SchemePBKDF2SHA256:
		return hashPBKDF2(password, DefaultPBKDF2Params())
	case SchemeArgon2id:
		return hashArgon2id(password, DefaultHashParams())
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
}

// VerifyPassword checks whether a password matches an encoded hash of any supported scheme.
// A malformed or unrecognised hash never matches.
func VerifyPassword(password, encodedHash string) bool {
	var ok bool
	var err error
	switch {
	case strings.HasPrefix(encodedHash, "$"+string(SchemePBKDF2SHA256)+"$"):
		ok, err = verifyPBKDF2(password, encodedHash)
	case strings.HasPrefix(encodedHash, "$"+string(SchemeArgon2id)+"$"):
		ok, err = verifyArgon2id(password, encodedHash)
	default:
		return false
	}
	return err == nil && ok
}

// hashPBKDF2 encodes as $pbkdf2-sha256$<rounds>$<ab64 salt>$<ab64 key>.
func hashPBKDF2(password string, params PBKDF2Params) (string, error) {
	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, params.Rounds, params.KeyLength, sha256.New)

	return fmt.Sprintf("$%s$%d$%s$%s",
		SchemePBKDF2SHA256,
		params.Rounds,
		ab64.EncodeToString(salt),
		ab64.EncodeToString(key),
	), nil
}

func verifyPBKDF2(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 5 {
		return false, ErrInvalidHashFormat
	}

	rounds, err := strconv.Atoi(parts[2])
	if err != nil || rounds < 1 {
		return false, ErrInvalidHashFormat
	}

	salt, err := ab64.DecodeString(parts[3])
	if err != nil {
		return false, ErrInvalidHashFormat
	}

	key, err := ab64.DecodeString(parts[4])
	if err != nil || len(key) == 0 {
		return false, ErrInvalidHashFormat
	}

	candidate := pbkdf2.Key([]byte(password), salt, rounds, len(key), sha256.New)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// hashArgon2id encodes in PHC format: $argon2id$v=19$m=65536,t=3,p=2$<base64-salt>$<base64-hash>
func hashArgon2id(password string, params HashParams) (string, error) {
	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		params.Memory,
		params.Iterations,
		params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyArgon2id(password, encodedHash string) (bool, error) {
	params, salt, hash, err := decodeArgon2id(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)
	return subtle.ConstantTimeCompare(hash, candidate) == 1, nil
}

// decodeArgon2id parses a PHC-formatted Argon2id hash string.
func decodeArgon2id(encodedHash string) (HashParams, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}

	if parts[1] != string(SchemeArgon2id) {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}
	if version != argon2.Version {
		return HashParams{}, nil, nil, ErrIncompatibleVersion
	}

	var params HashParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}
	params.SaltLength = uint32(len(salt))

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}
	params.KeyLength = uint32(len(hash))

	return params, salt, hash, nil
}

package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

const (
	KeySize      = 32
	SaltSize     = 32
	NonceSize    = 12
	minArgonSalt = 8
)

// StretchPassword runs Argon2id over password and salt and returns a 32-byte
// master hash. The password buffer is zeroed before returning, whatever the
// outcome.
func StretchPassword(p Params, password, salt []byte) ([]byte, error) {
	defer common.WipeByteArray(password)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(salt) < minArgonSalt {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes, got %d", common.ErrKeyDerivation, minArgonSalt, len(salt))
	}

	return argon2.IDKey(password, salt, p.Iterations, p.Memory, uint8(p.Parallelism), KeySize), nil
}

// DeriveCipherKey expands masterHash with HKDF-SHA256 (empty info) under a
// 32-byte salt and returns an AES-256-GCM AEAD bound to the result.
func DeriveCipherKey(masterHash, salt []byte) (cipher.AEAD, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", common.ErrInvalidSaltLength, SaltSize, len(salt))
	}
	if len(masterHash) == 0 {
		return nil, fmt.Errorf("%w: empty master hash", common.ErrKeyDerivation)
	}

	key := make([]byte, KeySize)
	defer common.WipeByteArray(key)

	if _, err := io.ReadFull(hkdf.New(sha256.New, masterHash, salt, nil), key); err != nil {
		return nil, fmt.Errorf("%w: hkdf: %v", common.ErrKeyDerivation, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: aes: %v", common.ErrKeyDerivation, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: gcm: %v", common.ErrKeyDerivation, err)
	}
	return aead, nil
}

// RandomNonce returns a fresh random 12-byte nonce.
func RandomNonce() ([]byte, error) {
	n, err := common.RandomBytes(NonceSize)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", common.ErrKeyDerivation, err)
	}
	return n, nil
}

// DeterministicNonce derives a 12-byte nonce by stretching the little-endian
// encoding of index under directorySalt. Distinct (salt, index) pairs give
// distinct nonces, so callers must never feed the same index twice for the
// same salt.
func DeterministicNonce(p Params, directorySalt []byte, index uint64) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(directorySalt) < minArgonSalt {
		return nil, fmt.Errorf("%w: directory salt must be at least %d bytes, got %d", common.ErrKeyDerivation, minArgonSalt, len(directorySalt))
	}

	var in [8]byte
	binary.LittleEndian.PutUint64(in[:], index)
	return argon2.IDKey(in[:], directorySalt, p.Iterations, p.Memory, uint8(p.Parallelism), NonceSize), nil
}

package cryptox

import (
	"crypto/cipher"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

// Seal encrypts plaintext in place and appends the authentication tag.
// The plaintext buffer is reused for the output when it has room and must
// not be read afterwards; when the output had to be reallocated the
// plaintext is wiped instead.
func Seal(aead cipher.AEAD, nonce, plaintext, aad []byte) ([]byte, error) {
	if aead == nil {
		return nil, fmt.Errorf("%w: nil cipher", common.ErrSeal)
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", common.ErrInvalidInput, aead.NonceSize(), len(nonce))
	}
	out := aead.Seal(plaintext[:0], nonce, plaintext, aad)
	if len(plaintext) > 0 && &out[0] != &plaintext[0] {
		common.WipeByteArray(plaintext)
	}
	return out, nil
}

// Open authenticates and decrypts ciphertext into a new buffer. Any tag
// mismatch is reported as common.ErrAuthentication.
func Open(aead cipher.AEAD, nonce, ciphertext, aad []byte) ([]byte, error) {
	if aead == nil {
		return nil, fmt.Errorf("%w: nil cipher", common.ErrAuthentication)
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", common.ErrInvalidInput, aead.NonceSize(), len(nonce))
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, common.ErrAuthentication
	}
	return plaintext, nil
}

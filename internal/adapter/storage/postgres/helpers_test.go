package postgres

import (
	"errors"
	"strings"
)

// prefixCipher is a reversible stand-in for AES so expected column values are predictable.
type prefixCipher struct{ fail bool }

func (c prefixCipher) Encrypt(plaintext string) (string, error) {
	if c.fail {
		return "", errors.New("cipher unavailable")
	}
	return "enc:" + plaintext, nil
}

func (c prefixCipher) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, "enc:") {
		return "", errors.New("message authentication failed")
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

func strPtr(s string) *string { return &s }

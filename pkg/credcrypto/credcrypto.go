// Package credcrypto шифрует и расшифровывает учетные данные календарных аккаунтов.
//
// Формат шифротекста: hex(iv) + ":" + hex(ciphertext), AES-256-CBC с PKCS#7.
// Ключ (32 символа latin1) передается из конфигурации при старте процесса.
package credcrypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const keySize = 32

var (
	// ErrInvalidKey возвращается, если ключ не состоит из 32 символов latin1
	ErrInvalidKey = errors.New("credcrypto: key must be 32 latin1 characters")

	// ErrMalformed возвращается при некорректном формате шифротекста
	ErrMalformed = errors.New("credcrypto: malformed ciphertext")
)

// Cipher шифратор с фиксированным ключом
type Cipher struct {
	block cipher.Block
}

// New создает шифратор; каждый символ key дает один байт (latin1)
func New(key string) (*Cipher, error) {
	raw, err := latin1Bytes(key)
	if err != nil {
		return nil, err
	}
	if len(raw) != keySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &Cipher{block: block}, nil
}

// Encrypt шифрует plaintext со случайным IV
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("credcrypto: failed to generate iv: %w", err)
	}

	padded := pad([]byte(plaintext))
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out), nil
}

// Decrypt расшифровывает строку формата iv:ciphertext
func (c *Cipher) Decrypt(text string) (string, error) {
	ivHex, ctHex, ok := strings.Cut(text, ":")
	if !ok {
		return "", ErrMalformed
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: invalid iv", ErrMalformed)
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: invalid ciphertext length", ErrMalformed)
	}

	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(out, ct)

	plain, err := unpad(out)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func latin1Bytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("%w: character %q is outside latin1", ErrInvalidKey, r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}

func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("%w: invalid padding", ErrMalformed)
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, fmt.Errorf("%w: invalid padding", ErrMalformed)
		}
	}
	return b[:len(b)-n], nil
}

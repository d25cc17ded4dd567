package crypto

import (
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	// ErrSealedTooShort indicates the sealed payload cannot hold a salt and nonce.
	ErrSealedTooShort = errors.New("sealed payload too short")
	// ErrOpenFailed indicates the payload was tampered with or the passphrase is wrong.
	ErrOpenFailed = errors.New("unable to open sealed payload")
)

// Sealer encrypts small secrets at rest with a passphrase-derived key.
type Sealer struct {
	passphrase []byte
}

// NewSealer returns a Sealer for passphrase. An empty passphrase is rejected.
func NewSealer(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, errors.New("sealer passphrase must not be empty")
	}
	return &Sealer{passphrase: []byte(passphrase)}, nil
}

// Seal encrypts plaintext. The output is salt || nonce || ciphertext.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	var salt [saltSize]byte
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}

	key, err := s.deriveKey(salt[:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+secretbox.Overhead)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, plaintext, &nonce, key), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < saltSize+nonceSize+secretbox.Overhead {
		return nil, ErrSealedTooShort
	}

	key, err := s.deriveKey(sealed[:saltSize])
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[saltSize:saltSize+nonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}

func (s *Sealer) deriveKey(salt []byte) (*[keySize]byte, error) {
	derived, err := scrypt.Key(s.passphrase, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, err
	}
	var key [keySize]byte
	copy(key[:], derived)
	return &key, nil
}

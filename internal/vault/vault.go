// Package vault encrypts imported VPN configs at rest with AES-256-GCM.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "knoxshield/pkg/errors"

	"golang.org/x/crypto/scrypt"
)

const (
	KeySize  = 32
	SaltSize = 16

	ScryptN = 32768
	ScryptR = 8
	ScryptP = 1

	payloadPrefix = "v1:"
)

type Options struct {
	// KeyFile holds 32 random bytes, created with mode 0600 on first use.
	KeyFile string
	// Passphrase, when set, derives the key with scrypt instead of KeyFile.
	Passphrase string
	// SaltFile stores the scrypt salt. Defaults to KeyFile + ".salt".
	SaltFile string
}

type Vault struct {
	aead cipher.AEAD
}

// Open loads or creates the key material described by opts.
func Open(opts Options) (*Vault, error) {
	var (
		key []byte
		err error
	)

	switch {
	case opts.Passphrase != "":
		saltFile := opts.SaltFile
		if saltFile == "" {
			if opts.KeyFile == "" {
				return nil, apperrors.NewConfigError("vault.key_file", "", "salt location required for passphrase mode")
			}
			saltFile = opts.KeyFile + ".salt"
		}
		salt, err := loadOrCreate(saltFile, SaltSize)
		if err != nil {
			return nil, err
		}
		key, err = DeriveKey(opts.Passphrase, salt)
		if err != nil {
			return nil, err
		}
	case opts.KeyFile != "":
		key, err = loadOrCreate(opts.KeyFile, KeySize)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewConfigError("vault.key_file", "", "either key_file or passphrase must be set")
	}

	return New(key)
}

// New builds a vault from a raw 32-byte key.
func New(key []byte) (*Vault, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key size %d, want %d", len(key), KeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Vault{aead: aead}, nil
}

// DeriveKey stretches a passphrase into an AES-256 key.
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), salt, ScryptN, ScryptR, ScryptP, KeySize)
}

// Encrypt seals plaintext and returns the v1:<hex(nonce||ciphertext)> form.
func (v *Vault) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := v.aead.Seal(nonce, nonce, plaintext, nil)
	return payloadPrefix + hex.EncodeToString(sealed), nil
}

func (v *Vault) Decrypt(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, payloadPrefix) {
		return nil, fmt.Errorf("%w: unknown payload version", apperrors.ErrDecrypt)
	}
	data, err := hex.DecodeString(strings.TrimPrefix(payload, payloadPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDecrypt, err)
	}
	nonceSize := v.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", apperrors.ErrDecrypt)
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDecrypt, err)
	}
	return plaintext, nil
}

// EncryptFile writes the sealed form of plaintext to path with mode 0600.
func (v *Vault) EncryptFile(path string, plaintext []byte) error {
	payload, err := v.Encrypt(plaintext)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	return os.WriteFile(path, []byte(payload), 0600)
}

func (v *Vault) DecryptFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return v.Decrypt(string(data))
}

// DecryptToTemp writes the plaintext of an encrypted file to a 0600 temp file
// named after base. The caller must remove the returned path.
func (v *Vault) DecryptToTemp(path, base string) (string, error) {
	plaintext, err := v.DecryptFile(path)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "knox-*-"+filepath.Base(base))
	if err != nil {
		return "", fmt.Errorf("failed to create temp config: %w", err)
	}
	defer f.Close()
	if err := f.Chmod(0600); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	if _, err := f.Write(plaintext); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp config: %w", err)
	}
	return f.Name(), nil
}

func loadOrCreate(path string, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != size {
			return nil, apperrors.NewConfigError("vault", path, fmt.Sprintf("expected %d bytes, found %d", size, len(data)))
		}
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data = make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return data, nil
}

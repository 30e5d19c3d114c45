package client

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32

	keystoreSaltLen     = 16
	keystoreVersion     = 1
	keystorePermissions = 0600
)

var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted keystore")

type keystoreFile struct {
	Version   int       `json:"version"`
	KDF       string    `json:"kdf"`
	Salt      string    `json:"salt"`
	Data      string    `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Keystore keeps the document-store API key on disk, sealed under a
// passphrase-derived key (argon2id + AES-256-GCM).
type Keystore struct {
	path string
}

func NewKeystore(path string) *Keystore {
	return &Keystore{path: path}
}

func (k *Keystore) Exists() bool {
	_, err := os.Stat(k.path)
	return err == nil
}

func (k *Keystore) Save(passphrase, apiKey string) error {
	salt := make([]byte, keystoreSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(passphrase), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	sealed, err := seal(key, []byte(apiKey))
	if err != nil {
		return fmt.Errorf("seal api key: %w", err)
	}

	file := keystoreFile{
		Version:   keystoreVersion,
		KDF:       "argon2id",
		Salt:      hex.EncodeToString(salt),
		Data:      hex.EncodeToString(sealed),
		UpdatedAt: time.Now().UTC(),
	}

	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode keystore: %w", err)
	}

	if err := os.WriteFile(k.path, raw, keystorePermissions); err != nil {
		return fmt.Errorf("write keystore: %w", err)
	}
	return nil
}

func (k *Keystore) Load(passphrase string) (string, error) {
	raw, err := os.ReadFile(k.path)
	if err != nil {
		return "", fmt.Errorf("read keystore: %w", err)
	}

	var file keystoreFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return "", fmt.Errorf("decode keystore: %w", err)
	}

	salt, err := hex.DecodeString(file.Salt)
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}
	sealed, err := hex.DecodeString(file.Data)
	if err != nil {
		return "", fmt.Errorf("decode data: %w", err)
	}

	key := argon2.IDKey([]byte(passphrase), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	plaintext, err := open(key, sealed)
	if err != nil {
		return "", ErrWrongPassphrase
	}
	return string(plaintext), nil
}

func seal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func open(key, sealed []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("sealed data too short")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

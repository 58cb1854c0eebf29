// Package keystore persists provider secrets and the mode-to-model assignment
// under the user's Lofty directory. The secrets file is encrypted with a key
// derived from machine identity; this is obfuscation against casual reads, not
// real security — anyone with local code execution can rederive the key.
package keystore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// KnownProviders are the credential slots every install starts with. Unknown
// extra keys in the file are preserved for forward compatibility.
var KnownProviders = []string{"openai", "anthropic", "gemini", "deepseek", "openchat", "yi", "gecko"}

const keysFileName = "api-keys.json"

// Store owns the on-disk credential and mode-assignment files.
type Store struct {
	dir           string
	keysFile      string
	modesFile     string
	encryptionKey []byte
}

// DefaultDir returns the per-user storage directory (~/.lofty).
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".lofty"), nil
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %q: %w", dir, err)
	}
	return &Store{
		dir:           dir,
		keysFile:      filepath.Join(dir, keysFileName),
		modesFile:     filepath.Join(dir, modesFileName),
		encryptionKey: deriveKey(),
	}, nil
}

// deriveKey builds the symmetric key from stable machine identifiers. The hex
// digest is truncated to 32 bytes to match the historical file format.
func deriveKey() []byte {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	machineID := fmt.Sprintf("%s-%s-%s", hostname, runtime.GOOS, runtime.GOARCH)
	digest := sha256.Sum256([]byte(machineID))
	return []byte(hex.EncodeToString(digest[:])[:32])
}

// Load reads the credential map. It never fails: a missing file or a decrypt
// error degrades to an all-empty map over the known providers.
func (s *Store) Load() map[string]string {
	keys := emptyCredentials()

	data, err := os.ReadFile(s.keysFile)
	if err != nil {
		return keys
	}

	plaintext, err := s.decrypt(string(data))
	if err != nil {
		log.Printf("⚠️ Credential store unreadable, treating as unset: %v", err)
		return keys
	}

	var stored map[string]string
	if err := json.Unmarshal([]byte(plaintext), &stored); err != nil {
		log.Printf("⚠️ Credential store corrupt, treating as unset: %v", err)
		return keys
	}

	for name, secret := range stored {
		keys[name] = secret
	}
	return keys
}

// Save merges partial into the current map and rewrites the encrypted file.
// Keys absent from partial are never dropped.
func (s *Store) Save(partial map[string]string) error {
	keys := s.Load()
	for name, secret := range partial {
		keys[name] = secret
	}

	plaintext, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	encrypted := s.encrypt(string(plaintext))
	if err := os.WriteFile(s.keysFile, []byte(encrypted), 0o600); err != nil {
		return fmt.Errorf("failed to write credential store: %w", err)
	}
	return nil
}

// encrypt produces "<iv-hex>:<cipher-hex>". On any failure it falls back to
// returning the plaintext so a broken cipher never loses data.
func (s *Store) encrypt(text string) string {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		log.Printf("⚠️ Encryption unavailable, storing plaintext: %v", err)
		return text
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		log.Printf("⚠️ Encryption unavailable, storing plaintext: %v", err)
		return text
	}

	padded := pkcs7Pad([]byte(text), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext)
}

// decrypt reverses encrypt. Callers treat any error as "credentials unset".
func (s *Store) decrypt(encrypted string) (string, error) {
	ivHex, cipherHex, ok := strings.Cut(encrypted, ":")
	if !ok {
		return "", fmt.Errorf("credential store is not in iv:ciphertext form")
	}

	iv, err := hex.DecodeString(strings.TrimSpace(ivHex))
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("credential store has invalid IV")
	}
	ciphertext, err := hex.DecodeString(strings.TrimSpace(cipherHex))
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("credential store has invalid ciphertext")
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("failed to initialize cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("invalid padding byte %d", padding)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-padding], nil
}

func emptyCredentials() map[string]string {
	keys := make(map[string]string, len(KnownProviders))
	for _, name := range KnownProviders {
		keys[name] = ""
	}
	return keys
}

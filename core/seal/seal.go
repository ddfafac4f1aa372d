package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"golang.org/x/crypto/hkdf"

	"github.com/dmitrymomot/gatekit/core/session"
)

// minSecretLength is the minimum sealing secret length (AES-256 policy).
const minSecretLength = 32

// keyInfo binds derived keys to this token format so a secret reused for
// another purpose cannot open session tokens.
var keyInfo = []byte("gatekit/session-seal/v1")

// Opener is the restricted capability profile: it can open a token to answer
// "is this an authenticated session" but cannot mint tokens. Constrained
// runtimes (edge workers, read-only gateways) should depend on this interface
// rather than on Codec.
type Opener interface {
	Open(token string) (session.Record, error)
}

// Codec seals session records into opaque tamper-evident tokens and opens
// them back. It implements Opener; both capability profiles share this one
// format and key derivation.
type Codec struct {
	keys [][]byte
}

// New creates a codec from one or more secrets. The first secret seals;
// every secret is tried on open, which allows zero-downtime rotation.
func New(secrets ...string) (*Codec, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	keys := make([][]byte, 0, len(secrets))
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(s), minSecretLength)
		}
		key, err := deriveKey(s)
		if err != nil {
			return nil, errors.Join(ErrKeyDerivation, err)
		}
		keys = append(keys, key)
	}

	return &Codec{keys: keys}, nil
}

// NewOpener creates the restricted, open-only view over the shared format.
func NewOpener(secrets ...string) (Opener, error) {
	return New(secrets...)
}

// Seal encrypts the record into an opaque base64url token using AES-256-GCM.
func (c *Codec) Seal(rec session.Record) (string, error) {
	plaintext, err := json.Marshal(rec)
	if err != nil {
		return "", errors.Join(ErrSealFailed, err)
	}

	gcm, err := newGCM(c.keys[0])
	if err != nil {
		return "", errors.Join(ErrSealFailed, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Join(ErrSealFailed, err)
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// Open decrypts and decodes a sealed token. Any altered byte, truncation, or
// secret mismatch yields ErrOpenFailed; there is no degraded partial record.
func (c *Codec) Open(token string) (session.Record, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return session.Record{}, ErrOpenFailed
	}

	for _, key := range c.keys {
		gcm, err := newGCM(key)
		if err != nil {
			continue
		}
		if len(raw) < gcm.NonceSize() {
			continue
		}

		nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
		plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
		if err != nil {
			continue
		}

		var rec session.Record
		if err := json.Unmarshal(plaintext, &rec); err != nil {
			return session.Record{}, ErrOpenFailed
		}
		return rec, nil
	}

	return session.Record{}, ErrOpenFailed
}

// deriveKey stretches a secret into a 32-byte AES key via HKDF-SHA256.
func deriveKey(secret string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, keyInfo), key); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

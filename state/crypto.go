package state

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"

	"go.step.sm/crypto/x25519"
	"golang.org/x/crypto/curve25519"
)

type PrivateKey [32]byte
type PublicKey [32]byte
type SharedKey [32]byte

func GenerateKey() PrivateKey {
	var k PrivateKey
	if _, err := rand.Read(k[:]); err != nil {
		panic(err)
	}
	return k
}

func (k PrivateKey) Pubkey() PublicKey {
	pub, err := x25519.PrivateKey(k[:]).PublicKey()
	if err != nil {
		panic(err)
	}
	return PublicKey([32]byte(pub))
}

// Cipher is the narrow surface the transport uses for opportunistic
// encryption. The default suite is a simulation stand-in, not a real
// AEAD; swapping in a hardened implementation must not touch transport
// or routing code.
type Cipher interface {
	DeriveShared(priv PrivateKey, pub PublicKey) SharedKey
	Encrypt(data []byte, key SharedKey) []byte
	Decrypt(data []byte, key SharedKey) []byte
}

// StreamCipher derives shared keys with X25519 and scrambles payloads
// with a SHA-256 keystream XOR. DeriveShared is symmetric by
// construction: both peers compute the same value from their own private
// key and the other's public key.
type StreamCipher struct{}

func (StreamCipher) DeriveShared(priv PrivateKey, pub PublicKey) SharedKey {
	secret, err := curve25519.X25519(priv[:], pub[:])
	if err != nil {
		// low-order point; fall back to a hash of the inputs so the
		// simulation degrades instead of failing
		sum := sha256.Sum256(append(priv[:], pub[:]...))
		return SharedKey(sum)
	}
	return SharedKey(sha256.Sum256(secret))
}

func (StreamCipher) Encrypt(data []byte, key SharedKey) []byte {
	return xorKeystream(data, key)
}

func (StreamCipher) Decrypt(data []byte, key SharedKey) []byte {
	return xorKeystream(data, key)
}

func xorKeystream(data []byte, key SharedKey) []byte {
	out := make([]byte, len(data))
	var block [32]byte
	for i := range data {
		if i%len(block) == 0 {
			ctr := make([]byte, 8)
			binary.BigEndian.PutUint64(ctr, uint64(i/len(block)))
			block = sha256.Sum256(append(key[:], ctr...))
		}
		out[i] = data[i] ^ block[i%len(block)]
	}
	return out
}

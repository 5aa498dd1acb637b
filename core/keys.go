package core

import (
	"log/slog"

	"github.com/weftlabs/weft/state"
)

// KeyExchangeSession holds a node's asymmetric key pair and the shared
// secrets it has derived, keyed by peer address. Secrets never expire
// within a simulation run.
type KeyExchangeSession struct {
	self   state.Addr
	priv   state.PrivateKey
	pub    state.PublicKey
	cipher state.Cipher

	secrets map[state.Addr]state.SharedKey

	send func(state.Msg)
	log  *slog.Logger
}

func NewKeyExchangeSession(self state.Addr, cipher state.Cipher, send func(state.Msg), log *slog.Logger) *KeyExchangeSession {
	priv := state.GenerateKey()
	return &KeyExchangeSession{
		self:    self,
		priv:    priv,
		pub:     priv.Pubkey(),
		cipher:  cipher,
		secrets: make(map[state.Addr]state.SharedKey),
		send:    send,
		log:     log,
	}
}

// Initiate sends our public key tag to peer at high priority.
func (k *KeyExchangeSession) Initiate(peer state.Addr) {
	k.send(&state.KeyExchange{
		Header:    state.Header{Src: k.self, Dst: peer, Priority: state.PriorityHigh},
		PublicKey: k.pub,
	})
	k.log.Debug("initiated key exchange", "peer", peer)
}

// Handle derives the shared secret from an incoming public key tag. The
// reply carrying our own tag goes out only when no secret was on file
// yet, which breaks the request/response recursion.
func (k *KeyExchangeSession) Handle(msg *state.KeyExchange) {
	peer := msg.Src
	_, had := k.secrets[peer]
	k.secrets[peer] = k.cipher.DeriveShared(k.priv, msg.PublicKey)
	if !had {
		k.send(&state.KeyExchange{
			Header:    state.Header{Src: k.self, Dst: peer, Priority: state.PriorityHigh},
			PublicKey: k.pub,
		})
	}
	k.log.Debug("key exchange complete", "peer", peer)
}

// HasSecret reports whether a shared secret exists for peer.
func (k *KeyExchangeSession) HasSecret(peer state.Addr) bool {
	_, ok := k.secrets[peer]
	return ok
}

// Seal encrypts data for peer when a secret exists. ok=false means no
// secret: the caller sends cleartext, a silent degrade rather than an
// error.
func (k *KeyExchangeSession) Seal(peer state.Addr, data []byte) (out []byte, ok bool) {
	key, has := k.secrets[peer]
	if !has {
		return data, false
	}
	return k.cipher.Encrypt(data, key), true
}

// Open decrypts data from peer when a secret exists; otherwise the data
// is returned as-is.
func (k *KeyExchangeSession) Open(peer state.Addr, data []byte) []byte {
	key, has := k.secrets[peer]
	if !has {
		return data
	}
	return k.cipher.Decrypt(data, key)
}

// Pubkey exposes this node's public key tag.
func (k *KeyExchangeSession) Pubkey() state.PublicKey {
	return k.pub
}

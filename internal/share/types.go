package share

import "math/big"

// PaillierPublicKey is the wire/data-model shape of a Paillier public key:
// N is the modulus, NSquare its square, G the fixed generator (N+1 in the
// standard construction actually used by internal/paillier).
type PaillierPublicKey struct {
	N       *big.Int
	NSquare *big.Int
	G       *big.Int
}

// Ciphertext is a Paillier ciphertext: an element of Z/N²Z.
type Ciphertext struct {
	C *big.Int
}

// MasterKeyPublic is the public half of a two-party ECDSA key: the combined
// point Q = x1*x2*G, each party's public share point, party one's Paillier
// public key, and the Paillier encryption of x1 under that key (so party two
// can verify key-gen and drive signing without ever learning x1).
type MasterKeyPublic struct {
	Q           Point
	P1          Point
	P2          Point
	PaillierPub PaillierPublicKey
	CKey        Ciphertext
}

// MasterKeyClient is party two's complete view of a two-party key: the
// shared public material plus its own secret share and the chain code used
// for hierarchical derivation. Private must be zeroed via Zero once the
// holding PrivateShare/ChildKey is no longer needed.
type MasterKeyClient struct {
	Public    MasterKeyPublic
	Private   Scalar
	ChainCode [32]byte
}

// Zero destroys the secret share and chain code in place.
func (m *MasterKeyClient) Zero() {
	m.Private.Zero()
	for i := range m.ChainCode {
		m.ChainCode[i] = 0
	}
}

// PrivateShare is the persisted unit of client state: a wallet identifier,
// its master key, and the address-issuance cursor used to pick the next
// derivation position.
type PrivateShare struct {
	ID             string
	MasterKey      MasterKeyClient
	LastDerivedPos uint32
}

// Zero destroys the embedded master key's secret material.
func (p *PrivateShare) Zero() {
	p.MasterKey.Zero()
}

// ChildKey is a MasterKeyClient tweaked along a BIP-32-style derivation
// path, together with the path that produced it. Address-issuance children
// use path [0, pos+1]; re-deriving a signing key for a previously issued
// address uses path [0, pos] for the same pos that produced it.
type ChildKey struct {
	Path      []uint32
	MasterKey MasterKeyClient
}

// Zero destroys the embedded master key's secret material.
func (c *ChildKey) Zero() {
	c.MasterKey.Zero()
}

// AddressRecord binds an issued chain address to the derivation position and
// child key that produced it, so a later send/sign can rebuild the exact
// same ChildKey without re-deriving from scratch.
type AddressRecord struct {
	Address string
	Pos     uint32
	MK      MasterKeyClient
}

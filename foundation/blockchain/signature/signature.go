// Package signature provides the miner identity support for headers. A miner
// is identified by a 32 byte address derived from its public key and attests
// to a header by signing the header hash.
package signature

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/coinjecture/core/foundation/blockchain/header"
	"github.com/ethereum/go-ethereum/crypto"
)

// Length is the number of bytes in a header signature in the [R|S|V] format.
const Length = crypto.SignatureLength

// ErrInvalidSignature is returned when a signature does not attest to a
// header.
var ErrInvalidSignature = errors.New("invalid signature")

// stampPrefix makes signatures produced here unique to headers of this chain.
const stampPrefix = "\x19COINjecture Signed Header:\n32"

// =============================================================================

// MinerAddress returns the address of the miner owning the public key. It is
// the keccak256 hash of the uncompressed key without its format byte, the
// last 20 bytes of which form the matching Ethereum address.
func MinerAddress(pk ecdsa.PublicKey) hash.Hash {
	pub := crypto.FromECDSAPub(&pk)
	return hash.Hash(crypto.Keccak256Hash(pub[1:]))
}

// SignHeader uses the private key to attest to the header. The header must
// encode canonically.
func SignHeader(h header.BlockHeader, privateKey *ecdsa.PrivateKey) ([]byte, error) {
	data, err := stamp(h)
	if err != nil {
		return nil, err
	}

	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return nil, err
	}

	// Check the public key extracted from the data and signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return nil, err
	}

	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, sig[:crypto.RecoveryIDOffset]) {
		return nil, ErrInvalidSignature
	}

	return sig, nil
}

// RecoverMiner returns the address of the miner that signed the header.
func RecoverMiner(h header.BlockHeader, sig []byte) (hash.Hash, error) {
	if len(sig) != Length {
		return hash.ZeroHash, fmt.Errorf("%w: length %d, exp %d", ErrInvalidSignature, len(sig), Length)
	}

	if v := sig[crypto.RecoveryIDOffset]; v != 0 && v != 1 {
		return hash.ZeroHash, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, v)
	}

	data, err := stamp(h)
	if err != nil {
		return hash.ZeroHash, err
	}

	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return hash.ZeroHash, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	return MinerAddress(*publicKey), nil
}

// VerifyHeader checks the signature was produced by the miner the header
// names.
func VerifyHeader(h header.BlockHeader, sig []byte) error {
	miner, err := RecoverMiner(h, sig)
	if err != nil {
		return err
	}

	if miner != h.MinerAddress {
		return fmt.Errorf("%w: signed by %s, header names %s", ErrInvalidSignature, miner, h.MinerAddress)
	}

	return nil
}

// =============================================================================

// stamp returns the 32 byte digest that is signed for the header.
func stamp(h header.BlockHeader) ([]byte, error) {
	hh, err := h.Hash()
	if err != nil {
		return nil, err
	}

	return crypto.Keccak256([]byte(stampPrefix), hh[:]), nil
}

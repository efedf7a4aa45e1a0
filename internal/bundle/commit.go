package bundle

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/dmitrijs2005/cosignet/internal/merkle"
)

const signerLeafDomain = "signer"

// SignerLeaf hashes one signed signer's record: email, formatted public
// key, lower-hex signature, and signing time, in that fixed order under a
// domain prefix.
func SignerLeaf(s *Signer) (merkle.Hash, error) {
	if !s.Signed || s.PublicKey == nil || s.CryptoSignature == nil || s.SignedAt == nil {
		return merkle.Hash{}, fmt.Errorf("%w: signer %s has not signed", common.ErrIncomplete, s.ID)
	}
	record := strings.Join([]string{
		signerLeafDomain,
		s.Email,
		*s.PublicKey,
		*s.CryptoSignature,
		*s.SignedAt,
	}, "\n")
	return sha256.Sum256([]byte(record)), nil
}

// Leaves produces the commitment leaf set in its fixed deterministic order:
// document hash first, then one leaf per signer in bundle order.
func Leaves(b *Bundle) ([]merkle.Hash, error) {
	leaves := make([]merkle.Hash, 0, len(b.Signers)+1)
	leaves = append(leaves, b.DocumentHash())
	for _, s := range b.Signers {
		leaf, err := SignerLeaf(s)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, leaf)
	}
	return leaves, nil
}

// Commitment is the frozen Merkle commitment for a completed bundle: one
// root suitable for external timestamp anchoring, plus a proof per leaf so
// each record can be verified independently.
type Commitment struct {
	Root   merkle.Hash
	Leaves []merkle.Hash
	Proofs []merkle.Proof
}

// Commit builds the commitment over the final leaf set. The bundle must be
// completed: the commitment binds to a frozen signer set, and any later
// change to that set would invalidate every issued proof.
func Commit(b *Bundle) (*Commitment, error) {
	if b.RecomputeStatus() != StatusCompleted {
		return nil, fmt.Errorf("%w: bundle status is %s", common.ErrIncomplete, b.Status)
	}
	if !b.IsComplete() {
		return nil, fmt.Errorf("%w: required fields are unfilled", common.ErrIncomplete)
	}

	leaves, err := Leaves(b)
	if err != nil {
		return nil, err
	}
	tree, err := merkle.Build(leaves)
	if err != nil {
		return nil, err
	}

	proofs := make([]merkle.Proof, len(leaves))
	for i := range leaves {
		p, err := tree.Proof(i)
		if err != nil {
			return nil, err
		}
		proofs[i] = p
	}

	return &Commitment{Root: tree.Root(), Leaves: leaves, Proofs: proofs}, nil
}

package bundle

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/dmitrijs2005/cosignet/internal/merkle"
	"github.com/stretchr/testify/require"
)

func TestCommit_RequiresCompletedBundle(t *testing.T) {
	b, s1, _ := twoSignerBundle(t)

	_, err := Commit(b)
	require.ErrorIs(t, err, common.ErrIncomplete)

	require.NoError(t, b.Sign(context.Background(), SignRequest{
		SignerID:       s1.ID,
		Password:       []byte("pw"),
		SignatureImage: testImage,
	}))

	_, err = Commit(b)
	require.ErrorIs(t, err, common.ErrIncomplete, "in_progress bundle cannot be committed")
}

func TestCommit_LeafOrderAndProofsVerify(t *testing.T) {
	b := signedBundle(t)

	c, err := Commit(b)
	require.NoError(t, err)

	// Document hash first, then signers in bundle order.
	require.Len(t, c.Leaves, 3)
	require.Equal(t, merkle.Hash(b.DocumentHash()), c.Leaves[0])

	l1, err := SignerLeaf(b.Signers[0])
	require.NoError(t, err)
	l2, err := SignerLeaf(b.Signers[1])
	require.NoError(t, err)
	require.Equal(t, l1, c.Leaves[1])
	require.Equal(t, l2, c.Leaves[2])

	for i, leaf := range c.Leaves {
		require.True(t, merkle.VerifyProof(leaf, c.Proofs[i], c.Root),
			"leaf %d must verify against the root without the others", i)
	}
}

func TestCommit_RootIndependentOfPairingOrder(t *testing.T) {
	b := signedBundle(t)
	c, err := Commit(b)
	require.NoError(t, err)

	// Recompute by hand with swapped operands at every pairing.
	swapped := merkle.PairHash(c.Leaves[1], c.Leaves[0])
	root := merkle.PairHash(c.Leaves[2], swapped)
	require.Equal(t, c.Root, root)
}

func TestCommit_Deterministic(t *testing.T) {
	b := signedBundle(t)

	c1, err := Commit(b)
	require.NoError(t, err)
	c2, err := Commit(b)
	require.NoError(t, err)
	require.Equal(t, c1.Root, c2.Root)
}

func TestCommit_RebuiltAfterSignerSetChanges(t *testing.T) {
	b := signedBundle(t)
	c1, err := Commit(b)
	require.NoError(t, err)

	require.NoError(t, b.RemoveSigner(b.Signers[1].ID))
	c2, err := Commit(b)
	require.NoError(t, err)

	require.NotEqual(t, c1.Root, c2.Root, "the commitment binds to the exact leaf set")
	require.False(t, merkle.VerifyProof(c1.Leaves[1], c1.Proofs[1], c2.Root),
		"proofs issued for the old root are invalid against the new one")
}

func TestSignerLeaf_UnsignedSigner(t *testing.T) {
	b, s1, _ := twoSignerBundle(t)
	_, err := SignerLeaf(s1)
	require.ErrorIs(t, err, common.ErrIncomplete)
	_ = b
}

func TestSignerLeaf_SensitiveToEveryRecordField(t *testing.T) {
	b := signedBundle(t)
	s := b.Signers[0]

	base, err := SignerLeaf(s)
	require.NoError(t, err)

	mutations := []func(c *Signer){
		func(c *Signer) { c.Email = "mallory@example.com" },
		func(c *Signer) { v := "ed25519:" + "00"; c.PublicKey = &v },
		func(c *Signer) { v := "deadbeef"; c.CryptoSignature = &v },
		func(c *Signer) { v := "2020-01-01T00:00:00Z"; c.SignedAt = &v },
	}
	for i, mutate := range mutations {
		c := *s
		mutate(&c)
		leaf, err := SignerLeaf(&c)
		require.NoError(t, err)
		require.NotEqual(t, base, leaf, "mutation %d must change the leaf hash", i)
	}
}

package merkle

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLeaves(n int) []Hash {
	leaves := make([]Hash, n)
	for i := range leaves {
		leaves[i] = sha256.Sum256([]byte(fmt.Sprintf("leaf-%d", i)))
	}
	return leaves
}

func TestBuild_EmptyLeafSet(t *testing.T) {
	_, err := Build(nil)
	require.ErrorIs(t, err, ErrNoLeaves)
}

func TestBuild_SingleLeafRootIsLeaf(t *testing.T) {
	leaves := makeLeaves(1)
	tree, err := Build(leaves)
	require.NoError(t, err)
	require.Equal(t, leaves[0], tree.Root())

	proof, err := tree.Proof(0)
	require.NoError(t, err)
	require.Empty(t, proof)
	require.True(t, VerifyProof(leaves[0], proof, tree.Root()))
}

func TestPairHash_ContentOrdered(t *testing.T) {
	a := sha256.Sum256([]byte("a"))
	b := sha256.Sum256([]byte("b"))

	require.Equal(t, PairHash(a, b), PairHash(b, a),
		"combined hash must be independent of operand order")
	require.NotEqual(t, PairHash(a, b), PairHash(a, a))
}

func TestBuild_RootIndependentOfPairingOrder(t *testing.T) {
	// Two signers plus document hash, as in a completed bundle.
	leaves := makeLeaves(3)
	tree, err := Build(leaves)
	require.NoError(t, err)

	// Recompute the root by hand, passing operands to PairHash in swapped
	// order at every step.
	l01 := PairHash(leaves[1], leaves[0])
	root := PairHash(leaves[2], l01)
	require.Equal(t, tree.Root(), root)
}

func TestProofRoundtrip_AllSizesAllIndices(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 13} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			leaves := makeLeaves(n)
			tree, err := Build(leaves)
			require.NoError(t, err)

			for i := 0; i < n; i++ {
				proof, err := tree.Proof(i)
				require.NoError(t, err)
				assert.True(t, VerifyProof(leaves[i], proof, tree.Root()),
					"leaf %d of %d must verify against the root", i, n)
			}
		})
	}
}

func TestVerifyProof_MutatedLeafFails(t *testing.T) {
	leaves := makeLeaves(5)
	tree, err := Build(leaves)
	require.NoError(t, err)

	proof, err := tree.Proof(2)
	require.NoError(t, err)

	bad := leaves[2]
	bad[0] ^= 0x01
	require.False(t, VerifyProof(bad, proof, tree.Root()))
}

func TestVerifyProof_MutatedProofEntryFails(t *testing.T) {
	leaves := makeLeaves(5)
	tree, err := Build(leaves)
	require.NoError(t, err)

	proof, err := tree.Proof(2)
	require.NoError(t, err)
	require.NotEmpty(t, proof)

	proof[0].Sibling[0] ^= 0x01
	require.False(t, VerifyProof(leaves[2], proof, tree.Root()))
}

func TestVerifyProof_StaleProofAfterRebuild(t *testing.T) {
	leaves := makeLeaves(3)
	tree, err := Build(leaves)
	require.NoError(t, err)

	proof, err := tree.Proof(1)
	require.NoError(t, err)
	require.True(t, VerifyProof(leaves[1], proof, tree.Root()))

	// A signer joins: the leaf set changes and the tree is rebuilt.
	grown, err := Build(makeLeaves(4))
	require.NoError(t, err)

	require.False(t, VerifyProof(leaves[1], proof, grown.Root()),
		"a proof issued before the leaf set changed must not verify against the new root")
}

func TestProof_IndexOutOfRange(t *testing.T) {
	tree, err := Build(makeLeaves(3))
	require.NoError(t, err)

	_, err = tree.Proof(-1)
	require.Error(t, err)
	_, err = tree.Proof(3)
	require.Error(t, err)
}

func TestBuild_OddTrailingLeafPromoted(t *testing.T) {
	leaves := makeLeaves(3)
	tree, err := Build(leaves)
	require.NoError(t, err)

	want := PairHash(PairHash(leaves[0], leaves[1]), leaves[2])
	require.Equal(t, want, tree.Root())
}

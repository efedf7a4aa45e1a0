// Package merkle builds the tamper-evident commitment over a bundle's leaf
// hashes and produces per-leaf inclusion proofs.
//
// Pair hashing is content-ordered, not position-ordered: the two nodes are
// concatenated with the lexicographically smaller hex representation first
// before hashing, so a recomputed combination is independent of which input
// was "left" in the tree structure.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

type Hash = [sha256.Size]byte

var ErrNoLeaves = errors.New("merkle: empty leaf set")

// Position records which side a proof sibling occupied in the tree.
// Retained for wire compatibility and diagnostics; recomputation does not
// depend on it because pairing is content-ordered.
type Position string

const (
	PositionLeft  Position = "left"
	PositionRight Position = "right"
)

// ProofStep is one sibling on the path from a leaf to the root.
type ProofStep struct {
	Sibling  Hash     `json:"sibling"`
	Position Position `json:"position"`
}

// Proof lets a single leaf be verified against the root without the rest of
// the leaf set.
type Proof []ProofStep

// Tree holds every layer, leaves first, root last. A tree is valid only for
// the exact, frozen leaf set it was built from; any leaf change requires a
// full rebuild and invalidates previously issued proofs.
type Tree struct {
	layers [][]Hash
}

// PairHash combines two nodes content-ordered: the input with the smaller
// hex representation goes first.
func PairHash(a, b Hash) Hash {
	if hex.EncodeToString(a[:]) > hex.EncodeToString(b[:]) {
		a, b = b, a
	}
	return sha256.Sum256(append(a[:], b[:]...))
}

// Build constructs a tree from an ordered, non-empty leaf sequence.
// Adjacent pairs are combined layer by layer; an odd trailing node is
// promoted unchanged to the next layer.
func Build(leaves []Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrNoLeaves
	}

	layers := [][]Hash{append([]Hash(nil), leaves...)}

	for current := layers[0]; len(current) > 1; {
		next := make([]Hash, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 == len(current) {
				next = append(next, current[i])
				continue
			}
			next = append(next, PairHash(current[i], current[i+1]))
		}
		layers = append(layers, next)
		current = next
	}

	return &Tree{layers: layers}, nil
}

// Root returns the top hash.
func (t *Tree) Root() Hash {
	top := t.layers[len(t.layers)-1]
	return top[0]
}

// LeafCount returns the number of leaves the tree was built from.
func (t *Tree) LeafCount() int {
	return len(t.layers[0])
}

// Proof returns the inclusion proof for leaf index i: the sibling hashes
// encountered walking up from that leaf, each tagged with a position hint.
// A lone trailing node at some layer contributes no step.
func (t *Tree) Proof(i int) (Proof, error) {
	if i < 0 || i >= t.LeafCount() {
		return nil, fmt.Errorf("merkle: leaf index %d out of range [0,%d)", i, t.LeafCount())
	}

	var proof Proof
	idx := i
	for _, layer := range t.layers[:len(t.layers)-1] {
		var sibling int
		var pos Position
		if idx%2 == 0 {
			sibling = idx + 1
			pos = PositionRight
		} else {
			sibling = idx - 1
			pos = PositionLeft
		}
		if sibling < len(layer) {
			proof = append(proof, ProofStep{Sibling: layer[sibling], Position: pos})
		}
		idx /= 2
	}
	return proof, nil
}

// VerifyProof recomputes the root from a single leaf and its proof and
// compares it to the published root. The position hints in the proof are
// ignored: content-ordered pairing already makes recomputation
// order-independent.
func VerifyProof(leaf Hash, proof Proof, root Hash) bool {
	running := leaf
	for _, step := range proof {
		running = PairHash(running, step.Sibling)
	}
	return running == root
}

// Package services implements the anchor server's business logic:
// attestation signing over submitted Merkle roots and presigned archive
// uploads.
package services

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cosignet/internal/anchorapi"
	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/dmitrijs2005/cosignet/internal/cryptox"
	"github.com/dmitrijs2005/cosignet/internal/server/models"
	"github.com/dmitrijs2005/cosignet/internal/server/repositories/anchors"
)

// nowFunc is a test seam.
var nowFunc = time.Now

// AnchorService signs attestations over Merkle roots with a long-lived
// Ed25519 key and persists them. Anchoring is idempotent per root: the
// first attestation wins and is returned on every later submission.
type AnchorService struct {
	repo anchors.Repository
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// NewAnchorService builds the service around the given hex seed. An empty
// seed generates a fresh ephemeral key, which is fine for development but
// makes previously issued attestations unverifiable after a restart.
func NewAnchorService(repo anchors.Repository, seedHex string) (*AnchorService, error) {
	if seedHex == "" {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		return &AnchorService{repo: repo, pub: pub, priv: priv}, nil
	}

	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("%w: anchor seed is not hex", common.ErrInput)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: anchor seed must be %d bytes", common.ErrInput, ed25519.SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &AnchorService{repo: repo, pub: priv.Public().(ed25519.PublicKey), priv: priv}, nil
}

// PublicKey returns the display form of the attestation key.
func (s *AnchorService) PublicKey() string {
	return cryptox.FormatPublicKey(s.pub)
}

func validRoot(root string) error {
	raw, err := hex.DecodeString(root)
	if err != nil || len(raw) != 32 {
		return fmt.Errorf("%w: root must be 64 lower-hex chars", common.ErrInput)
	}
	return nil
}

// Anchor attests the given root. Re-anchoring a known root returns the
// originally stored attestation unchanged.
func (s *AnchorService) Anchor(ctx context.Context, root string) (*anchorapi.Proof, error) {
	if err := validRoot(root); err != nil {
		return nil, err
	}

	if a, err := s.repo.GetByRoot(ctx, root); err == nil {
		return toProof(a), nil
	}

	anchoredAt := nowFunc().UTC().Truncate(time.Second)
	sig := ed25519.Sign(s.priv, anchorapi.AttestationMessage(root, anchoredAt.Format(time.RFC3339)))

	a := &models.Anchor{
		Root:       root,
		AnchoredAt: anchoredAt,
		PublicKey:  s.PublicKey(),
		Signature:  hex.EncodeToString(sig),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	// a concurrent insert may have won; the stored row is authoritative
	stored, err := s.repo.GetByRoot(ctx, root)
	if err != nil {
		return nil, err
	}
	return toProof(stored), nil
}

// Get returns the stored attestation for a root.
func (s *AnchorService) Get(ctx context.Context, root string) (*anchorapi.Proof, error) {
	if err := validRoot(root); err != nil {
		return nil, err
	}
	a, err := s.repo.GetByRoot(ctx, root)
	if err != nil {
		return nil, err
	}
	return toProof(a), nil
}

// Verify checks a presented proof against the stored attestation and the
// attestation signature itself.
func (s *AnchorService) Verify(ctx context.Context, root string, proof anchorapi.Proof) (bool, error) {
	if err := validRoot(root); err != nil {
		return false, err
	}

	a, err := s.repo.GetByRoot(ctx, root)
	if err != nil {
		return false, err
	}

	stored := toProof(a)
	if *stored != proof {
		return false, nil
	}

	pub, err := cryptox.ParsePublicKey(proof.PublicKey)
	if err != nil {
		return false, nil
	}
	sig, err := hex.DecodeString(proof.Signature)
	if err != nil {
		return false, nil
	}
	ok, err := cryptox.Verify(anchorapi.AttestationMessage(proof.Root, proof.AnchoredAt), sig, pub)
	if err != nil {
		return false, nil
	}
	return ok, nil
}

func toProof(a *models.Anchor) *anchorapi.Proof {
	return &anchorapi.Proof{
		Root:       a.Root,
		AnchoredAt: a.AnchoredAt.UTC().Format(time.RFC3339),
		PublicKey:  a.PublicKey,
		Signature:  a.Signature,
	}
}

package bundle

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/dmitrijs2005/cosignet/internal/cryptox"
)

// nowFunc is a test seam for time.Now.
var nowFunc = time.Now

// SignRequest carries everything a signer supplies for one sign operation.
// The keypair is derived from the signer record's (normalized) email and
// Password; Password is wiped before Sign returns.
type SignRequest struct {
	SignerID string
	Password []byte

	// SignatureImage is the captured drawing, used for signature and
	// initials fields.
	SignatureImage string

	// Values holds explicit per-field values (text fields, overrides).
	Values map[string]string
}

// Sign performs the sign operation for one signer: derive keypair, check
// document integrity, stage field fills, build and sign the canonical
// message, self-verify, then apply everything atomically. On any error the
// bundle is left exactly as it was. The caller must ensure only one sign
// operation is in flight per bundle instance.
func (b *Bundle) Sign(ctx context.Context, req SignRequest) error {
	defer common.WipeByteArray(req.Password)

	if err := ctx.Err(); err != nil {
		return err
	}

	signer, err := b.SignerByID(req.SignerID)
	if err != nil {
		return err
	}
	if signer.Signed {
		return fmt.Errorf("%w: signer %s already signed", common.ErrInput, signer.ID)
	}

	// Key stretching is the long-running step; everything after it only
	// stages state.
	pub, priv := cryptox.DeriveKeypair(signer.Email, req.Password)
	defer common.WipeByteArray(priv)

	if err := b.CheckIntegrity(); err != nil {
		return err
	}
	docHash := b.DocumentHash()

	timestamp := nowFunc().UTC().Format(time.RFC3339)

	// Stage values for this signer's unfilled fields. Required fields fall
	// back to defaults; optional fields are filled only when the request
	// names them explicitly. Filled fields are never overwritten. Nothing
	// is written to the bundle until every step has succeeded.
	staged := make(map[string]string)
	for _, f := range b.FieldsForSigner(signer.ID) {
		if f.Value != nil {
			continue
		}
		v, ok := req.Values[f.ID]
		if !ok {
			if !f.Required {
				continue
			}
			switch f.Type {
			case FieldSignature, FieldInitials:
				v = req.SignatureImage
			case FieldDate:
				v = nowFunc().UTC().Format("2006-01-02")
			}
		}
		if v == "" {
			if !f.Required {
				continue
			}
			return fmt.Errorf("%w: no value captured for required %s field %s",
				common.ErrIncomplete, f.Type, f.ID)
		}
		if err := f.Type.ValidateValue(v); err != nil {
			return err
		}
		staged[f.ID] = v
	}

	message := cryptox.SigningMessage(docHash, signer.Email, timestamp)
	sig, err := cryptox.Sign(message, priv)
	if err != nil {
		return err
	}

	// Self-check before committing anything: a recorded signature must be
	// verifiable or the signer state must not change.
	ok, err := cryptox.Verify(message, sig, pub)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: fresh signature failed self-verification", common.ErrInvalidSignature)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// Commit point: no failures past here.
	for id, v := range staged {
		f, _ := b.FieldByID(id)
		value := v
		f.Value = &value
	}
	pubStr := cryptox.FormatPublicKey(pub)
	sigStr := hex.EncodeToString(sig)
	signer.SignedAt = &timestamp
	signer.PublicKey = &pubStr
	signer.CryptoSignature = &sigStr
	if req.SignatureImage != "" {
		img := req.SignatureImage
		signer.SignatureImage = &img
	}
	signer.Signed = true
	b.touch()

	return nil
}

package bundle

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/dmitrijs2005/cosignet/internal/cryptox"
)

// Marshal serializes a bundle to its persisted JSON form.
func Marshal(b *Bundle) ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal bundle: %w", err)
	}
	return data, nil
}

// Unmarshal parses and validates a persisted bundle. Loading fails fast and
// atomically: on any validation error nothing is returned. The stored
// status is not trusted; it is recomputed from the signer set.
func Unmarshal(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if err := validate(&b); err != nil {
		return nil, err
	}
	// A nil RawMessage round-trips through JSON as the literal "null";
	// collapse it back so absence checks keep working on loaded bundles.
	if string(b.TimestampProof) == "null" {
		b.TimestampProof = nil
	}
	// Emails are stored normalized, but a foreign bundle may carry mixed
	// case. Signatures and commitment leaves both hash the normalized
	// form, so fold here before anything downstream sees the signer.
	for _, s := range b.Signers {
		s.Email = cryptox.NormalizeEmail(s.Email)
	}
	b.RecomputeStatus()
	return &b, nil
}

func validate(b *Bundle) error {
	if b.Version == "" {
		return fmt.Errorf("%w: missing version", common.ErrValidation)
	}
	if len(b.Document.Data) == 0 {
		return fmt.Errorf("%w: missing document payload", common.ErrValidation)
	}
	if b.Document.SHA256 == "" {
		return fmt.Errorf("%w: missing document hash", common.ErrValidation)
	}

	signerIDs := make(map[string]struct{}, len(b.Signers))
	for _, s := range b.Signers {
		if s.ID == "" {
			return fmt.Errorf("%w: signer with empty id", common.ErrValidation)
		}
		if _, dup := signerIDs[s.ID]; dup {
			return fmt.Errorf("%w: duplicate signer id %s", common.ErrValidation, s.ID)
		}
		signerIDs[s.ID] = struct{}{}
		if s.Signed && (s.SignedAt == nil || s.PublicKey == nil || s.CryptoSignature == nil) {
			return fmt.Errorf("%w: signer %s marked signed without a recorded signature", common.ErrValidation, s.ID)
		}
	}

	fieldIDs := make(map[string]struct{}, len(b.Fields))
	for _, f := range b.Fields {
		if f.ID == "" {
			return fmt.Errorf("%w: field with empty id", common.ErrValidation)
		}
		if _, dup := fieldIDs[f.ID]; dup {
			return fmt.Errorf("%w: duplicate field id %s", common.ErrValidation, f.ID)
		}
		fieldIDs[f.ID] = struct{}{}
		if !f.Type.Valid() {
			return fmt.Errorf("%w: field %s has unknown type %q", common.ErrValidation, f.ID, f.Type)
		}
		if _, ok := signerIDs[f.SignerID]; !ok {
			return fmt.Errorf("%w: field %s references unknown signer %s", common.ErrValidation, f.ID, f.SignerID)
		}
	}

	return nil
}

// Package bundle implements the persisted unit of document + signer + field
// state, its completion state machine, the atomic sign operation, and the
// Merkle commitment built over the final record set.
package bundle

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/dmitrijs2005/cosignet/internal/cryptox"
	"github.com/google/uuid"
)

// WireVersion identifies the persisted bundle format.
const WireVersion = "1"

// Status is the bundle completion state. It is a pure function of
// signers[].signed and is recomputed after every mutation, never set
// directly.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// FieldType is a closed set of field kinds. Each variant carries default
// dimensions and its own value-shape validation.
type FieldType string

const (
	FieldSignature FieldType = "signature"
	FieldInitials  FieldType = "initials"
	FieldDate      FieldType = "date"
	FieldText      FieldType = "text"
)

// DefaultSize returns the default width and height for a field of this type.
func (ft FieldType) DefaultSize() (w, h float64) {
	switch ft {
	case FieldSignature:
		return 150, 50
	case FieldInitials:
		return 75, 50
	case FieldDate:
		return 100, 30
	default:
		return 150, 30
	}
}

// Valid reports whether ft is one of the known variants.
func (ft FieldType) Valid() bool {
	switch ft {
	case FieldSignature, FieldInitials, FieldDate, FieldText:
		return true
	}
	return false
}

// ValidateValue checks the shape of a captured value for this field type.
// Signature and initials fields expect an image payload (data URL); date
// fields expect a calendar date or RFC3339 timestamp; text must be
// non-empty.
func (ft FieldType) ValidateValue(v string) error {
	switch ft {
	case FieldSignature, FieldInitials:
		if len(v) < len("data:image/") || v[:len("data:image/")] != "data:image/" {
			return fmt.Errorf("%w: %s value must be an image data URL", common.ErrInput, ft)
		}
	case FieldDate:
		if _, err := time.Parse("2006-01-02", v); err != nil {
			if _, err := time.Parse(time.RFC3339, v); err != nil {
				return fmt.Errorf("%w: date value must be YYYY-MM-DD or RFC3339", common.ErrInput)
			}
		}
	case FieldText:
		if v == "" {
			return fmt.Errorf("%w: text value must not be empty", common.ErrInput)
		}
	default:
		return fmt.Errorf("%w: unknown field type %q", common.ErrInput, ft)
	}
	return nil
}

// Signer is one party expected to sign. Created by the preparer; mutated
// exactly once, from unsigned to signed, by that signer's own sign
// operation.
type Signer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Color  string `json:"color"`
	Signed bool   `json:"signed"`

	// Set by the sign operation, all four together or none.
	SignedAt        *string `json:"signedAt"`
	PublicKey       *string `json:"publicKey"`
	SignatureImage  *string `json:"signatureImage"`
	CryptoSignature *string `json:"cryptoSignature"` // 64 bytes, lower-hex
}

// Field is a placement on the document assigned to one signer. Value
// transitions nil to non-nil exactly once, set only by the owning signer
// during their sign operation.
type Field struct {
	ID       string    `json:"id"`
	Type     FieldType `json:"type"`
	SignerID string    `json:"signerId"`
	Page     int       `json:"page"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Required bool      `json:"required"`
	Value    *string   `json:"value"`
}

// Document holds the original raw bytes and the content hash recorded once
// at bundle creation. The bytes and the hash are immutable afterwards; a
// post-signing artifact is a distinct object (CompletedDocument).
type Document struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"` // lower-hex, recorded at creation
	Data   []byte `json:"data"`   // base64 on the wire
}

// CompletedDocument is the separately hashed post-signing artifact.
type CompletedDocument struct {
	Data        []byte `json:"data"`
	CompletedAt string `json:"completedAt"`
}

// Bundle is the persisted document/signer/field state.
type Bundle struct {
	Version  string    `json:"version"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Document Document  `json:"document"`
	Signers  []*Signer `json:"signers"`
	Fields   []*Field  `json:"fields"`
	Status   Status    `json:"status"`

	CompletedDocument *CompletedDocument `json:"completedDocument"`
	TimestampProof    json.RawMessage    `json:"timestampProof"`
}

// New creates a bundle around raw document bytes, computing and recording
// the content hash once.
func New(name string, raw []byte) *Bundle {
	sum := sha256.Sum256(raw)
	now := time.Now().UTC()
	return &Bundle{
		Version:  WireVersion,
		Created:  now,
		Modified: now,
		Document: Document{
			Name:   name,
			Size:   int64(len(raw)),
			SHA256: hex.EncodeToString(sum[:]),
			Data:   raw,
		},
		Signers: []*Signer{},
		Fields:  []*Field{},
		Status:  StatusDraft,
	}
}

// DocumentHash recomputes the SHA-256 of the original document bytes.
func (b *Bundle) DocumentHash() [sha256.Size]byte {
	return sha256.Sum256(b.Document.Data)
}

// CheckIntegrity compares the recomputed document hash against the hash
// recorded at creation. A mismatch signals tampering.
func (b *Bundle) CheckIntegrity() error {
	sum := b.DocumentHash()
	if hex.EncodeToString(sum[:]) != b.Document.SHA256 {
		return fmt.Errorf("%w: recorded %s", common.ErrIntegrity, b.Document.SHA256)
	}
	return nil
}

// AddSigner appends an unsigned signer with a fresh unique id. The email is
// normalized before it is stored so that derivation, signing, and
// verification all see the same identity.
func (b *Bundle) AddSigner(name, email, color string) (*Signer, error) {
	email = cryptox.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: signer email must not be empty", common.ErrInput)
	}
	s := &Signer{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Color: color,
	}
	b.Signers = append(b.Signers, s)
	b.touch()
	return s, nil
}

// RemoveSigner deletes a signer and cascades to delete that signer's
// fields. Status can regress, which is legitimate since the signer set
// changed.
func (b *Bundle) RemoveSigner(id string) error {
	idx := -1
	for i, s := range b.Signers {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: signer %s", common.ErrNotFound, id)
	}
	b.Signers = append(b.Signers[:idx], b.Signers[idx+1:]...)

	kept := b.Fields[:0]
	for _, f := range b.Fields {
		if f.SignerID != id {
			kept = append(kept, f)
		}
	}
	b.Fields = kept
	b.touch()
	return nil
}

// SignerByID returns the signer with the given id.
func (b *Bundle) SignerByID(id string) (*Signer, error) {
	for _, s := range b.Signers {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: signer %s", common.ErrNotFound, id)
}

// AddField places a field for an existing signer. Width and height default
// per field type when zero.
func (b *Bundle) AddField(ft FieldType, signerID string, page int, x, y float64, required bool) (*Field, error) {
	if !ft.Valid() {
		return nil, fmt.Errorf("%w: unknown field type %q", common.ErrInput, ft)
	}
	if _, err := b.SignerByID(signerID); err != nil {
		return nil, err
	}
	w, h := ft.DefaultSize()
	f := &Field{
		ID:       uuid.NewString(),
		Type:     ft,
		SignerID: signerID,
		Page:     page,
		X:        x,
		Y:        y,
		Width:    w,
		Height:   h,
		Required: required,
	}
	b.Fields = append(b.Fields, f)
	b.touch()
	return f, nil
}

// RemoveField deletes a field by id.
func (b *Bundle) RemoveField(id string) error {
	for i, f := range b.Fields {
		if f.ID == id {
			b.Fields = append(b.Fields[:i], b.Fields[i+1:]...)
			b.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: field %s", common.ErrNotFound, id)
}

// FieldByID returns the field with the given id.
func (b *Bundle) FieldByID(id string) (*Field, error) {
	for _, f := range b.Fields {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: field %s", common.ErrNotFound, id)
}

// FieldsForSigner returns the fields assigned to one signer, in bundle
// order.
func (b *Bundle) FieldsForSigner(signerID string) []*Field {
	var out []*Field
	for _, f := range b.Fields {
		if f.SignerID == signerID {
			out = append(out, f)
		}
	}
	return out
}

// RecomputeStatus derives the status from scratch: draft if no signer
// exists, completed if every signer signed, in_progress if some but not
// all.
func (b *Bundle) RecomputeStatus() Status {
	if len(b.Signers) == 0 {
		b.Status = StatusDraft
		return b.Status
	}
	signed := 0
	for _, s := range b.Signers {
		if s.Signed {
			signed++
		}
	}
	switch {
	case signed == len(b.Signers):
		b.Status = StatusCompleted
	case signed > 0:
		b.Status = StatusInProgress
	default:
		b.Status = StatusDraft
	}
	return b.Status
}

// IsComplete reports whether every required field has a non-nil value.
func (b *Bundle) IsComplete() bool {
	for _, f := range b.Fields {
		if f.Required && f.Value == nil {
			return false
		}
	}
	return true
}

func (b *Bundle) touch() {
	b.Modified = time.Now().UTC()
	b.RecomputeStatus()
}

package bundle

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/dmitrijs2005/cosignet/internal/cryptox"
	"github.com/stretchr/testify/require"
)

const testImage = "data:image/png;base64,iVBORw0KGgo="

func twoSignerBundle(t *testing.T) (*Bundle, *Signer, *Signer) {
	t.Helper()
	b := New("contract.pdf", []byte("%PDF-1.4 agreement text"))
	s1, err := b.AddSigner("Alice", "alice@example.com", "#ff0000")
	require.NoError(t, err)
	s2, err := b.AddSigner("Bob", "bob@example.com", "#00ff00")
	require.NoError(t, err)
	_, err = b.AddField(FieldSignature, s1.ID, 1, 10, 10, true)
	require.NoError(t, err)
	_, err = b.AddField(FieldSignature, s2.ID, 1, 10, 60, true)
	require.NoError(t, err)
	return b, s1, s2
}

func TestSign_TwoSignerScenario(t *testing.T) {
	b, s1, s2 := twoSignerBundle(t)
	ctx := context.Background()

	require.Equal(t, StatusDraft, b.Status)

	err := b.Sign(ctx, SignRequest{
		SignerID:       s1.ID,
		Password:       []byte("alice-password"),
		SignatureImage: testImage,
	})
	require.NoError(t, err)

	require.True(t, s1.Signed)
	require.Equal(t, StatusInProgress, b.Status)
	require.NotNil(t, b.FieldsForSigner(s1.ID)[0].Value, "alice's field is filled")
	require.Nil(t, b.FieldsForSigner(s2.ID)[0].Value, "bob's field is still empty")
	require.NotNil(t, s1.PublicKey)
	require.NotNil(t, s1.CryptoSignature)
	require.NotNil(t, s1.SignedAt)

	err = b.Sign(ctx, SignRequest{
		SignerID:       s2.ID,
		Password:       []byte("bob-password"),
		SignatureImage: testImage,
	})
	require.NoError(t, err)

	require.Equal(t, StatusCompleted, b.Status)
	require.True(t, b.IsComplete())
}

func TestSign_RecordedSignatureVerifies(t *testing.T) {
	b, s1, _ := twoSignerBundle(t)

	require.NoError(t, b.Sign(context.Background(), SignRequest{
		SignerID:       s1.ID,
		Password:       []byte("alice-password"),
		SignatureImage: testImage,
	}))

	pub, err := cryptox.ParsePublicKey(*s1.PublicKey)
	require.NoError(t, err)
	sig, err := hex.DecodeString(*s1.CryptoSignature)
	require.NoError(t, err)

	msg := cryptox.SigningMessage(b.DocumentHash(), s1.Email, *s1.SignedAt)
	ok, err := cryptox.Verify(msg, sig, pub)
	require.NoError(t, err)
	require.True(t, ok)

	// The recorded public key is exactly the one credentials derive.
	wantPub, _ := cryptox.DeriveKeypair(s1.Email, []byte("alice-password"))
	require.Equal(t, cryptox.FormatPublicKey(wantPub), *s1.PublicKey)
}

func TestSign_AlreadySigned(t *testing.T) {
	b, s1, _ := twoSignerBundle(t)

	require.NoError(t, b.Sign(context.Background(), SignRequest{
		SignerID:       s1.ID,
		Password:       []byte("pw"),
		SignatureImage: testImage,
	}))

	err := b.Sign(context.Background(), SignRequest{
		SignerID:       s1.ID,
		Password:       []byte("pw"),
		SignatureImage: testImage,
	})
	require.ErrorIs(t, err, common.ErrInput)
}

func TestSign_UnknownSigner(t *testing.T) {
	b, _, _ := twoSignerBundle(t)
	err := b.Sign(context.Background(), SignRequest{SignerID: "nope", Password: []byte("pw")})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSign_TamperedDocument(t *testing.T) {
	b, s1, _ := twoSignerBundle(t)
	b.Document.Data = append(b.Document.Data, '!')

	err := b.Sign(context.Background(), SignRequest{
		SignerID:       s1.ID,
		Password:       []byte("pw"),
		SignatureImage: testImage,
	})
	require.ErrorIs(t, err, common.ErrIntegrity)
	require.False(t, s1.Signed)
}

func TestSign_MissingCapturedValueLeavesBundleUntouched(t *testing.T) {
	b := New("contract.pdf", []byte("doc"))
	s, _ := b.AddSigner("Alice", "alice@example.com", "#ff0000")
	_, err := b.AddField(FieldSignature, s.ID, 1, 0, 0, true)
	require.NoError(t, err)
	textField, err := b.AddField(FieldText, s.ID, 1, 0, 0, true)
	require.NoError(t, err)

	// Signature image supplied, but the required text field has no value:
	// the whole operation must fail with no partial fills.
	err = b.Sign(context.Background(), SignRequest{
		SignerID:       s.ID,
		Password:       []byte("pw"),
		SignatureImage: testImage,
	})
	require.ErrorIs(t, err, common.ErrIncomplete)

	require.False(t, s.Signed)
	require.Nil(t, s.CryptoSignature)
	for _, f := range b.Fields {
		require.Nil(t, f.Value, "no partial field fills after a failed sign")
	}
	require.Equal(t, StatusDraft, b.Status)
	require.Nil(t, textField.Value)
}

func TestSign_CancelledContextLeavesBundleUntouched(t *testing.T) {
	b, s1, _ := twoSignerBundle(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Sign(ctx, SignRequest{
		SignerID:       s1.ID,
		Password:       []byte("pw"),
		SignatureImage: testImage,
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, s1.Signed)
	require.Equal(t, StatusDraft, b.Status)
}

func TestSign_WipesPassword(t *testing.T) {
	b, s1, _ := twoSignerBundle(t)

	pw := []byte("alice-password")
	require.NoError(t, b.Sign(context.Background(), SignRequest{
		SignerID:       s1.ID,
		Password:       pw,
		SignatureImage: testImage,
	}))

	for _, c := range pw {
		require.Zero(t, c, "password buffer must be wiped after signing")
	}
}

func TestSign_TimestampIsRFC3339UTC(t *testing.T) {
	b, s1, _ := twoSignerBundle(t)

	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	orig := nowFunc
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = orig }()

	require.NoError(t, b.Sign(context.Background(), SignRequest{
		SignerID:       s1.ID,
		Password:       []byte("pw"),
		SignatureImage: testImage,
	}))

	require.Equal(t, "2026-08-31T12:00:00Z", *s1.SignedAt)
}

func TestSign_ExplicitValueFillsOptionalField(t *testing.T) {
	b := New("contract.pdf", []byte("doc"))
	s, err := b.AddSigner("Alice", "alice@example.com", "#ff0000")
	require.NoError(t, err)
	_, err = b.AddField(FieldSignature, s.ID, 1, 10, 10, true)
	require.NoError(t, err)
	note, err := b.AddField(FieldText, s.ID, 1, 10, 60, false)
	require.NoError(t, err)
	skipped, err := b.AddField(FieldText, s.ID, 1, 10, 90, false)
	require.NoError(t, err)

	err = b.Sign(context.Background(), SignRequest{
		SignerID:       s.ID,
		Password:       []byte("pw"),
		SignatureImage: testImage,
		Values:         map[string]string{note.ID: "approved as drafted"},
	})
	require.NoError(t, err)

	require.NotNil(t, note.Value, "an explicitly supplied optional value must land in the field")
	require.Equal(t, "approved as drafted", *note.Value)
	require.Nil(t, skipped.Value, "optional fields without a supplied value stay empty")
	require.Equal(t, StatusCompleted, b.Status)
}

func TestSign_MalformedOptionalValueLeavesBundleUntouched(t *testing.T) {
	b := New("contract.pdf", []byte("doc"))
	s, err := b.AddSigner("Alice", "alice@example.com", "#ff0000")
	require.NoError(t, err)
	_, err = b.AddField(FieldSignature, s.ID, 1, 10, 10, true)
	require.NoError(t, err)
	when, err := b.AddField(FieldDate, s.ID, 1, 10, 60, false)
	require.NoError(t, err)

	err = b.Sign(context.Background(), SignRequest{
		SignerID:       s.ID,
		Password:       []byte("pw"),
		SignatureImage: testImage,
		Values:         map[string]string{when.ID: "next tuesday"},
	})
	require.ErrorIs(t, err, common.ErrInput)
	require.False(t, s.Signed)
	require.Nil(t, when.Value)
}

package bundle

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/stretchr/testify/require"
)

func TestFinalize_RequiresCompletion(t *testing.T) {
	b, _, _ := twoSignerBundle(t)
	err := Finalize(context.Background(), b, PassthroughRenderer{})
	require.ErrorIs(t, err, common.ErrIncomplete)
	require.Nil(t, b.CompletedDocument)
}

func TestFinalize_RecordsCompletedArtifact(t *testing.T) {
	b := signedBundle(t)

	require.NoError(t, Finalize(context.Background(), b, PassthroughRenderer{}))
	require.NotNil(t, b.CompletedDocument)
	require.Equal(t, b.Document.Data, b.CompletedDocument.Data)
	require.NotEmpty(t, b.CompletedDocument.CompletedAt)

	// The original document hash is untouched; the completed artifact is a
	// distinct object.
	require.NoError(t, b.CheckIntegrity())
}

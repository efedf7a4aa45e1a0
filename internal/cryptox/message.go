package cryptox

import (
	"encoding/hex"
	"strings"
)

// SigningMessage builds the canonical byte message a signer signs. The
// format is a byte-exact wire contract: four UTF-8 lines joined by '\n',
// no trailing newline, in this order:
//
//	lower-hex document hash
//	normalized signer email
//	RFC3339 UTC timestamp (as supplied by the caller)
//	protocol version literal
//
// The message itself is never persisted; only its signature is.
func SigningMessage(docHash [32]byte, email, timestamp string) []byte {
	parts := []string{
		hex.EncodeToString(docHash[:]),
		NormalizeEmail(email),
		timestamp,
		ProtocolVersion,
	}
	return []byte(strings.Join(parts, "\n"))
}

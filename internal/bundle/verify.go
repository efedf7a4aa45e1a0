package bundle

import (
	"encoding/hex"

	"github.com/dmitrijs2005/cosignet/internal/cryptox"
)

// SignerCheck is the verification outcome for one signer. Problem is empty
// when every check passed.
type SignerCheck struct {
	SignerID string
	Email    string
	Signed   bool
	Valid    bool
	Problem  string
}

// Report aggregates all verification results for a bundle. All checks run;
// a failing signer never halts checking of the remaining ones.
type Report struct {
	DocumentOK bool
	Signers    []SignerCheck
}

// OK reports whether the document is intact and every signed signer's
// signature verified.
func (r Report) OK() bool {
	if !r.DocumentOK {
		return false
	}
	for _, c := range r.Signers {
		if c.Signed && !c.Valid {
			return false
		}
	}
	return true
}

// VerifyBundle re-checks the document hash and every recorded signature
// against the stored public keys. Unsigned signers are reported as such and
// are not failures.
func VerifyBundle(b *Bundle) Report {
	report := Report{
		DocumentOK: b.CheckIntegrity() == nil,
	}
	docHash := b.DocumentHash()

	for _, s := range b.Signers {
		check := SignerCheck{SignerID: s.ID, Email: s.Email, Signed: s.Signed}
		if !s.Signed {
			report.Signers = append(report.Signers, check)
			continue
		}

		switch {
		case s.PublicKey == nil:
			check.Problem = "no recorded public key"
		case s.CryptoSignature == nil:
			check.Problem = "no recorded signature"
		case s.SignedAt == nil:
			check.Problem = "no recorded signing time"
		}
		if check.Problem != "" {
			report.Signers = append(report.Signers, check)
			continue
		}

		pub, err := cryptox.ParsePublicKey(*s.PublicKey)
		if err != nil {
			check.Problem = "unparseable public key: " + err.Error()
			report.Signers = append(report.Signers, check)
			continue
		}
		sig, err := hex.DecodeString(*s.CryptoSignature)
		if err != nil {
			check.Problem = "unparseable signature: " + err.Error()
			report.Signers = append(report.Signers, check)
			continue
		}

		message := cryptox.SigningMessage(docHash, s.Email, *s.SignedAt)
		ok, err := cryptox.Verify(message, sig, pub)
		if err != nil {
			check.Problem = err.Error()
		} else if !ok {
			check.Problem = "signature does not verify against document and signer record"
		} else {
			check.Valid = true
		}
		report.Signers = append(report.Signers, check)
	}

	return report
}

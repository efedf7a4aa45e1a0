package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/cosignet/internal/bundle"
	"github.com/dmitrijs2005/cosignet/internal/common"
)

func (a *App) sign(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	signerID, err := GetSimpleText(a.reader, "- Enter your signer id")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	imgPath, err := GetOptionalText(a.reader, "- Enter path to signature image (PNG)", "")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	var image string
	if imgPath != "" {
		raw, err := os.ReadFile(imgPath)
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
		image = "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
	}

	values, err := a.readFieldValues()
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword("- Enter your signing password")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	// Sign wipes the password
	b, err := a.bundles.Sign(ctx, a.current, bundle.SignRequest{
		SignerID:       signerID,
		Password:       password,
		SignatureImage: image,
		Values:         values,
	})
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	fmt.Printf("Signed. Bundle status: %s\n", b.Status)
}

// readFieldValues collects explicit field values as fieldID=value lines,
// ending on an empty line.
func (a *App) readFieldValues() (map[string]string, error) {
	fmt.Println("Enter field values in the format fieldID=value (empty line to finish)")

	values := map[string]string{}
	for {
		line, _ := a.reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w: expected fieldID=value, got %q", common.ErrInput, line)
		}
		values[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

func (a *App) status(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	b, err := a.openBundle(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	signed := 0
	for _, s := range b.Signers {
		if s.Signed {
			signed++
		}
	}
	fmt.Printf("%s: %d of %d signed\n", b.Status, signed, len(b.Signers))
}

func (a *App) verify(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	report, err := a.bundles.Verify(ctx, a.current)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if report.DocumentOK {
		fmt.Println("Document hash: OK")
	} else {
		fmt.Println("Document hash: MISMATCH")
	}
	for _, c := range report.Signers {
		state := "not signed"
		switch {
		case c.Signed && c.Valid:
			state = "VALID"
		case c.Signed:
			state = "INVALID"
			if c.Problem != "" {
				state += " (" + c.Problem + ")"
			}
		}
		fmt.Printf("%-30s %s\n", c.Email, state)
	}
	if report.OK() {
		fmt.Println("Verification passed")
	} else {
		fmt.Println("Verification FAILED")
	}
}

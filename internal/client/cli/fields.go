package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/dmitrijs2005/cosignet/internal/bundle"
)

func (a *App) addField(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	ft, err := GetSimpleText(a.reader, "- Enter field type (signature/initials/date/text)")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	signerID, err := GetSimpleText(a.reader, "- Enter signer id")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	page, err := a.readInt("- Enter page number", 1)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	x, err := a.readFloat("- Enter x position", 0)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	y, err := a.readFloat("- Enter y position", 0)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	req, err := GetOptionalText(a.reader, "- Required? (yes/no)", "yes")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	b, err := a.openBundle(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	f, err := b.AddField(bundle.FieldType(ft), signerID, page, x, y, req == "yes")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.bundles.Save(ctx, a.current, b); err != nil {
		log.Printf("error: %v", err)
		return
	}
	fmt.Printf("Added %s field %s\n", f.Type, f.ID)
}

func (a *App) rmField(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	id, err := GetSimpleText(a.reader, "- Enter field id to remove")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	b, err := a.openBundle(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := b.RemoveField(id); err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.bundles.Save(ctx, a.current, b); err != nil {
		log.Printf("error: %v", err)
		return
	}
	fmt.Println("Removed")
}

func (a *App) listFields(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	b, err := a.openBundle(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	for _, f := range b.Fields {
		filled := "empty"
		if f.Value != nil {
			filled = "filled"
		}
		fmt.Printf("%s  %-10s signer=%s page=%d (%.0f,%.0f) required=%t %s\n",
			f.ID, f.Type, f.SignerID, f.Page, f.X, f.Y, f.Required, filled)
	}
}

func (a *App) readInt(prompt string, fallback int) (int, error) {
	s, err := GetOptionalText(a.reader, prompt, strconv.Itoa(fallback))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

func (a *App) readFloat(prompt string, fallback float64) (float64, error) {
	s, err := GetOptionalText(a.reader, prompt, strconv.FormatFloat(fallback, 'f', -1, 64))
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) addSigner(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	name, err := GetSimpleText(a.reader, "- Enter signer name")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	email, err := GetSimpleText(a.reader, "- Enter signer email")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	color, err := GetOptionalText(a.reader, "- Enter display color", "#1a73e8")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	b, err := a.openBundle(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	s, err := b.AddSigner(name, email, color)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.bundles.Save(ctx, a.current, b); err != nil {
		log.Printf("error: %v", err)
		return
	}
	fmt.Printf("Added signer %s (%s)\n", s.ID, s.Email)
}

func (a *App) rmSigner(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	id, err := GetSimpleText(a.reader, "- Enter signer id to remove")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	b, err := a.openBundle(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := b.RemoveSigner(id); err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.bundles.Save(ctx, a.current, b); err != nil {
		log.Printf("error: %v", err)
		return
	}
	fmt.Println("Removed")
}

func (a *App) listSigners(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	b, err := a.openBundle(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	for _, s := range b.Signers {
		state := "pending"
		if s.Signed {
			state = "signed " + deref(s.SignedAt)
		}
		fmt.Printf("%s  %-20s %-30s %s\n", s.ID, s.Name, s.Email, state)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

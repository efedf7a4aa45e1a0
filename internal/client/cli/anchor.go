package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) anchor(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	proof, err := a.anchors.Anchor(ctx, a.current)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	fmt.Printf("Anchored root %s at %s\n", proof.Root, proof.AnchoredAt)
}

func (a *App) anchorCheck(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	ok, err := a.anchors.VerifyAnchor(ctx, a.current)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if ok {
		fmt.Println("Timestamp proof: VALID")
	} else {
		fmt.Println("Timestamp proof: INVALID")
	}
}

func (a *App) archive(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	if err := a.anchors.Archive(ctx, a.current); err != nil {
		log.Printf("error: %v", err)
		return
	}
	fmt.Println("Archived")
}

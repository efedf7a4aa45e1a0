package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/cosignet/internal/filex"
)

func (a *App) create(ctx context.Context) {

	path, err := GetSimpleText(a.reader, "- Enter path to the document (PDF)")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	id, err := a.bundles.Create(ctx, filepath.Base(path), data)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	a.current = id
	fmt.Printf("Created bundle %s\n", id)
}

func (a *App) open(ctx context.Context, args []string) {

	var id string
	var err error
	if len(args) > 0 {
		id = args[0]
	} else {
		id, err = GetSimpleText(a.reader, "- Enter bundle id")
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
	}

	b, err := a.bundles.Load(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	a.current = id
	fmt.Printf("Opened %s (%s, %s)\n", id, b.Document.Name, b.Status)
}

func (a *App) list(ctx context.Context) {
	rows, err := a.bundles.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	for _, r := range rows {
		fmt.Printf("%s  %-30s %-12s %s\n", r.ID, r.Name, r.Status, r.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func (a *App) show(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	b, err := a.openBundle(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	fmt.Printf("Document: %s (%d bytes)\n", b.Document.Name, b.Document.Size)
	fmt.Printf("SHA-256:  %s\n", b.Document.SHA256)
	fmt.Printf("Status:   %s\n", b.Status)
	fmt.Printf("Signers:  %d, Fields: %d\n", len(b.Signers), len(b.Fields))
	if len(b.TimestampProof) > 0 {
		fmt.Println("Timestamp proof: present")
	}
}

func (a *App) export(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	path, err := GetOptionalText(a.reader, "- Enter output path", "")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if path == "" {
		dir, err := filex.EnsureSubDir("exports")
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
		path = filepath.Join(dir, a.current+".json")
	}

	if err := a.bundles.Export(ctx, a.current, path); err != nil {
		log.Printf("error: %v", err)
		return
	}
	fmt.Printf("Exported to %s\n", path)
}

func (a *App) importBundle(ctx context.Context) {

	path, err := GetSimpleText(a.reader, "- Enter path to the bundle file")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	id, err := a.bundles.Import(ctx, path)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	a.current = id
	fmt.Printf("Imported as %s\n", id)
}

func (a *App) delete(ctx context.Context) {

	if !a.hasOpen() {
		fmt.Println("No bundle open, use 'open' first")
		return
	}

	ok, err := GetSimpleText(a.reader, "- Delete the open bundle? (yes/no)")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if ok != "yes" {
		return
	}

	if err := a.bundles.Delete(ctx, a.current); err != nil {
		log.Printf("error: %v", err)
		return
	}
	a.current = ""
	fmt.Println("Deleted")
}

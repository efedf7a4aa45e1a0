package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.current == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", shortID(a.current))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to cosignet CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("csn %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "create":
			a.create(ctx)
		case "open":
			a.open(ctx, args)
		case "l", "list":
			a.list(ctx)
		case "show":
			a.show(ctx)
		case "addsigner":
			a.addSigner(ctx)
		case "rmsigner":
			a.rmSigner(ctx)
		case "signers":
			a.listSigners(ctx)
		case "addfield":
			a.addField(ctx)
		case "rmfield":
			a.rmField(ctx)
		case "fields":
			a.listFields(ctx)
		case "sign":
			a.sign(ctx)
		case "status":
			a.status(ctx)
		case "verify":
			a.verify(ctx)
		case "export":
			a.export(ctx)
		case "import":
			a.importBundle(ctx)
		case "anchor":
			a.anchor(ctx)
		case "anchorcheck":
			a.anchorCheck(ctx)
		case "archive":
			a.archive(ctx)
		case "delete":
			a.delete(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}

func (a *App) help() {
	if a.hasOpen() {
		fmt.Println("Available commands: show, addsigner, rmsigner, signers, addfield, rmfield, fields, sign, status, verify, export, anchor, anchorcheck, archive, delete")
		fmt.Println("Also: create, open, (l)ist, import, exit")
	} else {
		fmt.Println("Available commands: create, open, (l)ist, import, exit")
	}
}

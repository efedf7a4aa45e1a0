package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func GetSimpleText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Println(prompt)
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// GetPassword reads a password from the terminal without echo. The caller
// wipes the returned slice when done.
func GetPassword(prompt string) ([]byte, error) {
	fmt.Println(prompt)
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	return pw, err
}

// GetOptionalText is GetSimpleText with an empty answer allowed; fallback is
// returned in that case.
func GetOptionalText(reader *bufio.Reader, prompt, fallback string) (string, error) {
	s, err := GetSimpleText(reader, fmt.Sprintf("%s [%s]", prompt, fallback))
	if err != nil {
		return "", err
	}
	if s == "" {
		return fallback, nil
	}
	return s, nil
}

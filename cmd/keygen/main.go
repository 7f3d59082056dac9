package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"tutorlink.backend/pkg/crypto"
)

const sealKeyHexLen = 64

func generateRandomHex(n int) (string, error) {
	b := make([]byte, n/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func validateInputs(jwtHexLen int) error {
	if jwtHexLen < 32 || jwtHexLen%2 != 0 {
		return fmt.Errorf("invalid jwt-hex-len: %d (must be even and at least 32)", jwtHexLen)
	}
	return nil
}

// buildSecrets returns a pending registration sealing key and a JWT secret
func buildSecrets(jwtHexLen int) (string, string, error) {
	if err := validateInputs(jwtHexLen); err != nil {
		return "", "", err
	}
	sealKey, err := generateRandomHex(sealKeyHexLen)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate sealing key: %w", err)
	}
	// the server refuses to start with a key the sealer rejects
	if _, err := crypto.NewSealer(sealKey); err != nil {
		return "", "", err
	}
	jwtSecret, err := generateRandomHex(jwtHexLen)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	return sealKey, jwtSecret, nil
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	jwtHexLen := fs.Int("jwt-hex-len", 64, "JWT secret length in hex chars (even, >= 32)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sealKey, jwtSecret, err := buildSecrets(*jwtHexLen)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, "Generated server secrets")
	_, _ = fmt.Fprintf(out, "PENDING_REGISTRATION_KEY=%s\n", sealKey)
	_, _ = fmt.Fprintf(out, "JWT_SECRET=%s\n", jwtSecret)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

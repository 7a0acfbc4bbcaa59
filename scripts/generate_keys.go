//go:build ignore

// This script generates secure random keys for share links and API access.
// Run with: go run scripts/generate_keys.go
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func mustKey(name string, length int) string {
	key, err := generateSecureKey(length)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", name, err)
		os.Exit(1)
	}
	return key
}

func main() {
	fmt.Println("=== Bin Packing Service Key Generator ===")
	fmt.Println()

	// HS256 wants at least 256 bits.
	shareSecret := mustKey("share secret", 32)
	apiKeys := []string{mustKey("API key", 24), mustKey("API key", 24)}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Println("# Share links (rotating this invalidates every issued link)")
	fmt.Printf("SHARE_SECRET_KEY=%s\n", shareSecret)
	fmt.Println()
	fmt.Println("# API keys, comma separated")
	fmt.Println("AUTH_ENABLED=true")
	fmt.Printf("API_KEYS=%s,%s\n", apiKeys[0], apiKeys[1])
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Never commit these keys to version control")
	fmt.Println("- Use different keys for each environment (dev, staging, prod)")
	fmt.Println("- Store production keys in a secure secret manager")
}

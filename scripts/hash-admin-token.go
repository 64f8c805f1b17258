package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/guivr/ohmydashboard-sub002/internal/auth"
	"github.com/guivr/ohmydashboard-sub002/internal/secureid"
)

type output struct {
	Token string `json:"token"`
	Hash  string `json:"hash"`
}

// Generates (or hashes) an admin API token and prints the argon2id hash
// to put in ADMIN_TOKEN_HASH.
func main() {
	var (
		token  = flag.String("token", "", "Token to hash; generated when empty")
		format = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	value := *token
	if value == "" {
		value = secureid.New()
	}

	hash, err := auth.HashToken(value)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash token:", err)
		os.Exit(1)
	}

	out := output{Token: value, Hash: hash}

	if *format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, "encode output:", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("token:", out.Token)
	fmt.Println("hash: ", out.Hash)
	fmt.Println()
	fmt.Println("export ADMIN_TOKEN_HASH='" + out.Hash + "'")
}

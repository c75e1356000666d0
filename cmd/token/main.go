package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/seqhub/preference-service/pkg/auth"
)

// Dev helper: mints a JWT for a user id so the API can be called locally.
// In production tokens come from the identity provider, not from here.
func main() {
	_ = godotenv.Load()

	userID := flag.Uint("user", 1, "user id to mint a token for")
	username := flag.String("username", "dev", "username claim")
	role := flag.String("role", "user", "role claim")
	flag.Parse()

	token, err := auth.GenerateToken(uint(*userID), *username, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}

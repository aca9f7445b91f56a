// Command issue-token mints an access token for a user id, for local
// development and for driving forgectl against a running server.
//
// Usage:
//
//	issue-token --user=6f1c1f7e-8a53-4a8e-9d55-0f3f1d7b0c11 [--role=admin] [--ttl=24h]
//
// Requires AUTH_JWT_SECRET; AUTH_JWT_ISSUER defaults to "forge". A .env
// file in the working directory is honoured.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/forge-journal/forge-identity/internal/auth"
	"github.com/forge-journal/forge-identity/internal/domain"
)

func main() {
	_ = godotenv.Load()

	user := flag.String("user", "", "user id (a new random id when empty)")
	role := flag.String("role", string(domain.UserRoleUser), "role claim: user or admin")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		log.Fatal("AUTH_JWT_SECRET environment variable is required")
	}
	issuer := os.Getenv("AUTH_JWT_ISSUER")
	if issuer == "" {
		issuer = "forge"
	}

	if !domain.UserRole(*role).IsValid() {
		log.Fatalf("invalid role %q", *role)
	}

	userID := uuid.New()
	if *user != "" {
		parsed, err := uuid.Parse(*user)
		if err != nil {
			log.Fatalf("invalid user id %q: %v", *user, err)
		}
		userID = parsed
	}

	token, err := auth.NewJWTManager(secret, issuer, *ttl).GenerateAccessToken(userID, *role)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "user %s, role %s, expires %s\n", userID, *role, time.Now().Add(*ttl).UTC().Format(time.RFC3339))
	fmt.Println(token)
}

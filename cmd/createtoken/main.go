package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"itsheet.com/itsheet/model"
	"itsheet.com/itsheet/security"
)

// Mints a token for ops scripts, signed with SIGNING_SECRET.
func main() {
	id := flag.Int("id", 0, "user id")
	username := flag.String("username", "", "username")
	team := flag.String("team", "IT-Internal", "team")
	role := flag.String("role", model.RoleUser, "role (Admin or User)")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *username == "" {
		log.Fatalf("[ERROR] -username is required")
	}

	secret, err := security.DecodeSecret(os.Getenv("SIGNING_SECRET"))
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	token, err := security.CreateIdentityToken(security.Identity{
		ID:         int32(*id),
		UniqueName: *username,
		Team:       *team,
		Role:       *role,
	}, secret, *ttl)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	fmt.Println(token)
}

package main

import (
	"flag"
	"fmt"
	"os"

	"geoclock.com/geoclock/core"
	"geoclock.com/geoclock/security"
)

func main() {
	email := flag.String("email", "", "Email of the user to mint a token for")
	ttl := flag.Int64("ttl", 8*3600, "Token lifetime in seconds")
	flag.Parse()

	if *email == "" {
		fmt.Println("usage: createtoken -email user@example.com [-ttl seconds]")
		os.Exit(1)
	}

	secret := os.Getenv("GEOCLOCK_SIGNING_SECRET")
	if secret == "" {
		fmt.Println("GEOCLOCK_SIGNING_SECRET is not set")
		os.Exit(1)
	}

	db := core.MustConnectDB(os.Getenv("DSN"))

	user, err := core.FindUserByEmail(db, *email)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if user == nil {
		fmt.Printf("No user with email %s\n", *email)
		os.Exit(1)
	}

	token, err := security.CreateIdentityToken(&security.GeoclockIdentity{
		Id:      int(user.ID),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}, secret, *ttl)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}

// Command devtoken prints an access token signed with JWT_SECRET_KEY for local testing.
//
//	go run ./cmd/devtoken -user 0190c3e2-... -role manager
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/config"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user id to put in the token")
	role := flag.String("role", string(user.RoleEmployee), "owner, manager or employee")
	flag.Parse()

	if *userID == "" || !user.Role(*role).IsValid() {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	token, _, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(*userID, user.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

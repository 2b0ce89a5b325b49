package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/config"
	"github.com/madhava-poojari/coursebook-api/internal/models"
	"github.com/madhava-poojari/coursebook-api/internal/store"
)

func main() {
	email := flag.String("email", "", "email of the account to make ADMIN")
	flag.Parse()
	if strings.TrimSpace(*email) == "" {
		fmt.Println("Usage: go run ./cmd/promote-admin -email user@example.com")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	db, err := store.NewGormStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	n, err := db.SetUserRoleByEmail(ctx, strings.TrimSpace(*email), models.RoleAdmin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if n == 0 {
		fmt.Fprintf(os.Stderr, "no USER account with email %s (coaches and admins are left unchanged)\n", *email)
		os.Exit(1)
	}
	fmt.Printf("%s is now %s\n", *email, models.RoleAdmin)
}

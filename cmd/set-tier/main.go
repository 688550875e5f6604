package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/maja/schedly-api/internal/config"
	"github.com/maja/schedly-api/internal/database"
)

// set-tier is an operator tool for adjusting a user's subscription outside
// the billing flow, e.g. granting the agency tier to a pilot customer or
// whitelisting an account.
func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage:")
		fmt.Println("  set-tier <email> <tier> [status]   set subscription tier (status defaults to active)")
		fmt.Println("  set-tier <email> --whitelist       bypass tier and status checks for this user")
		fmt.Println("  set-tier <email> --unwhitelist     remove the bypass")
		os.Exit(1)
	}

	email := os.Args[1]
	arg := os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch arg {
	case "--whitelist", "--unwhitelist":
		whitelisted := arg == "--whitelist"
		result, err := db.Pool.Exec(ctx, `
			UPDATE users SET is_whitelisted = $1, updated_at = NOW()
			WHERE lower(email) = lower($2)
		`, whitelisted, email)
		if err != nil {
			log.Fatalf("Failed to update user: %v", err)
		}
		if result.RowsAffected() == 0 {
			log.Fatalf("No user found with email: %s", email)
		}
		fmt.Printf("Set whitelisted=%v for %s\n", whitelisted, email)

	default:
		tier := arg
		status := "active"
		if len(os.Args) > 3 {
			status = os.Args[3]
		}
		result, err := db.Pool.Exec(ctx, `
			UPDATE users SET subscription_tier = $1, subscription_status = $2, updated_at = NOW()
			WHERE lower(email) = lower($3)
		`, tier, status, email)
		if err != nil {
			log.Fatalf("Failed to update user: %v", err)
		}
		if result.RowsAffected() == 0 {
			log.Fatalf("No user found with email: %s", email)
		}
		fmt.Printf("Set %s to tier=%s status=%s\n", email, tier, status)
	}
}

// Command seedorg bootstraps an organization with its first admin user.
// Usage: go run ./cmd/seedorg -name "Shri Ganesh Mandir Trust" -slug ganesh-mandir \
// -email admin@example.org -password <password>
package main

import (
	"context"
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"

	"devasthan/internal/config"
	"devasthan/internal/domain"
	"devasthan/internal/repository/postgres"
)

func main() {
	name := flag.String("name", "", "organization name")
	slug := flag.String("slug", "", "organization slug (login identifier)")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (min 8 chars)")
	fullName := flag.String("full-name", "Administrator", "admin full name")
	flag.Parse()

	if *name == "" || *slug == "" || *email == "" || len(*password) < 8 {
		log.Fatal("usage: seedorg -name NAME -slug SLUG -email EMAIL -password PASSWORD (min 8 chars)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	orgRepo := postgres.NewOrgRepo(db)
	userRepo := postgres.NewUserRepo(db)

	org := &domain.Organization{
		Name:     *name,
		Slug:     *slug,
		IsActive: true,
	}
	if err := orgRepo.Create(ctx, org); err != nil {
		log.Fatalf("failed to create organization: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := &domain.User{
		OrgID:        org.ID,
		Email:        *email,
		PasswordHash: string(hash),
		FullName:     *fullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}

	log.Printf("created organization %s (%s) with admin %s", org.Name, org.ID, admin.Email)
}

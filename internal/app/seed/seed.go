/*
Package seed bootstraps accounts: the default administrator from configuration and an
optional YAML file of demo users.
*/
package seed

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"resq/internal/app/db"
	"resq/internal/app/model"
	"resq/internal/pkg/logx"
	"resq/internal/pkg/randx"
)

// Account is one user entry in a seed file.
type Account struct {
	Email       string     `yaml:"email"`
	Phone       string     `yaml:"phone"`
	VolunteerID string     `yaml:"volunteer_id"`
	FullName    string     `yaml:"full_name"`
	Role        model.Role `yaml:"role"`
	Password    string     `yaml:"password"`
}

// File is the top-level structure of a seed file.
type File struct {
	Users []Account `yaml:"users"`
}

// Result counts what an import did.
type Result struct {
	Created int
	Skipped int
}

// EnsureAdmin creates the administrator account unless the email is already registered.
func EnsureAdmin(ctx context.Context, store db.Store, email, password string) (bool, error) {
	if email == "" {
		return false, nil
	}

	created, err := createAccount(ctx, store, Account{
		Email:    email,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		Password: password,
	})
	if err != nil {
		return false, err
	}

	if created {
		logx.Info("Default admin account created", "email", email)
	}
	return created, nil
}

// LoadFile reads a YAML seed file from disk and imports its accounts.
func LoadFile(ctx context.Context, store db.Store, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return Import(ctx, store, data)
}

// Import parses YAML seed data and creates every account that does not exist yet.
// Accounts that collide with an existing email, phone or volunteer id are skipped.
func Import(ctx context.Context, store db.Store, data []byte) (Result, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Result{}, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	var res Result
	for i, acc := range file.Users {
		if err := validate(acc); err != nil {
			return res, fmt.Errorf("seed user #%d: %w", i+1, err)
		}

		created, err := createAccount(ctx, store, acc)
		if err != nil {
			return res, fmt.Errorf("seed user #%d: %w", i+1, err)
		}
		if created {
			res.Created++
		} else {
			res.Skipped++
		}
	}

	logx.Info("Seed accounts imported", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func validate(acc Account) error {
	if acc.Email == "" && acc.Phone == "" && acc.VolunteerID == "" {
		return fmt.Errorf("one of email, phone or volunteer_id is required")
	}
	if acc.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if !acc.Role.Valid() {
		return fmt.Errorf("invalid role %q", acc.Role)
	}
	if len(acc.Password) < 6 || len(acc.Password) > 72 {
		return fmt.Errorf("password must be between 6 and 72 characters")
	}
	return nil
}

func createAccount(ctx context.Context, store db.Store, acc Account) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	volunteerID := acc.VolunteerID
	if acc.Role == model.RoleVolunteer && volunteerID == "" {
		if volunteerID, err = randx.VolunteerID(); err != nil {
			return false, err
		}
	}

	_, err = store.CreateUser(ctx, db.CreateUserParams{
		Email:        acc.Email,
		Phone:        acc.Phone,
		VolunteerID:  volunteerID,
		PasswordHash: string(hash),
		FullName:     acc.FullName,
		Role:         acc.Role,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create user %s: %w", acc.FullName, err)
	}
	return true, nil
}

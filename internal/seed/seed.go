// Package seed creates demo accounts from a YAML file at startup.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/auth"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

// User is one account in the seed file.
type User struct {
	Username string      `yaml:"username"`
	Password string      `yaml:"password"`
	Email    string      `yaml:"email"`
	Role     models.Role `yaml:"role"`
	Name     string      `yaml:"name"`
}

type file struct {
	Users []User `yaml:"users"`
}

// Parse reads a seed file of the form
//
//	users:
//	  - username: hr-demo
//	    password: change-me
//	    email: hr@example.com
//	    role: hr
//	    name: HR Demo
func Parse(r io.Reader) ([]User, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed users: %w", err)
	}
	for i, u := range f.Users {
		if u.Username == "" || u.Password == "" || u.Email == "" {
			return nil, fmt.Errorf("seed user %d: username, password and email are required", i)
		}
		if !u.Role.Valid() {
			return nil, fmt.Errorf("seed user %q: invalid role %q", u.Username, u.Role)
		}
	}
	return f.Users, nil
}

// Load parses the seed file at path.
func Load(path string) ([]User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Apply creates every seed user that does not exist yet. Existing usernames
// or emails are skipped, so Apply is safe to run on every start.
func Apply(ctx context.Context, users auth.UserStore, seeds []User, log *slog.Logger) (created int, err error) {
	for _, s := range seeds {
		hash, err := auth.HashPassword(s.Password)
		if err != nil {
			return created, err
		}
		_, err = users.CreateUser(ctx, &models.User{
			Username:     s.Username,
			Email:        s.Email,
			PasswordHash: hash,
			Role:         s.Role,
			Name:         s.Name,
		})
		switch {
		case errors.Is(err, models.ErrUsernameTaken), errors.Is(err, models.ErrEmailTaken):
			log.DebugContext(ctx, "seed user exists", "username", s.Username)
		case err != nil:
			return created, fmt.Errorf("seed user %q: %w", s.Username, err)
		default:
			created++
			log.InfoContext(ctx, "seed user created", "username", s.Username, "role", s.Role)
		}
	}
	return created, nil
}

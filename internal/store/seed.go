package store

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/JonMunkholm/clinic/internal/clinic"
)

// Seed loads the demo clinic into st, giving every account password.
// A store that already has therapists is left alone.
func Seed(ctx context.Context, st Store, password string, cost int) error {
	existing, err := st.ListTherapists(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}
	users := clinic.SeedUsers()
	for i := range users {
		users[i].PasswordHash = string(hash)
	}

	if err := st.AddTherapists(ctx, clinic.SeedTherapists()); err != nil {
		return fmt.Errorf("seed therapists: %w", err)
	}
	if err := st.AddUsers(ctx, users); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := st.AppendPatients(ctx, clinic.SeedPatients()); err != nil {
		return fmt.Errorf("seed patients: %w", err)
	}
	if err := st.AppendPayments(ctx, clinic.SeedPayments()); err != nil {
		return fmt.Errorf("seed payments: %w", err)
	}
	return nil
}

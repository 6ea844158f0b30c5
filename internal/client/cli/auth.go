package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/eventhub/internal/client/models"
	"github.com/dmitrijs2005/eventhub/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and attempts to create a new
// account. A successful registration also signs the user in, so the view
// greets them immediately.
//
// The password byte slice is securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	in := models.RegisterInput{Name: name, Email: email, Password: string(password)}
	user, err := a.auth.Register(ctx, in)
	if err != nil {
		return err
	}

	fmt.Printf("Welcome, %s!\n", user.Name)
	return nil
}

// Login prompts for credentials and tries to authenticate. On success the
// session is committed to the local state database, so the next run of the
// client starts signed in.
//
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Printf("Welcome back, %s!\n", user.Name)
	return nil
}

// Logout clears the session and every cached resource. The local state is
// cleared even when the server cannot be notified.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// WhoAmI shows the signed-in user's profile.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	user, err := a.auth.Profile(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Name:   %s\n", user.Name)
	fmt.Printf("Email:  %s\n", user.Email)
	fmt.Printf("Role:   %s\n", user.Role)
	fmt.Printf("Status: %s\n", user.Status)
	if user.Phone != "" {
		fmt.Printf("Phone:  %s\n", user.Phone)
	}
	if p := user.Profile; p != nil && p.Bio != "" {
		fmt.Printf("Bio:    %s\n", p.Bio)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fileshare/internal/client/api"
	"github.com/dmitrijs2005/fileshare/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for an email and password and attempts to
// create a new account.
//
// On success it prints a confirmation and returns nil. The password byte
// slice is securely wiped before returning. Service errors are reported to
// the user as taxonomy messages, never raw.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, email, password); err != nil {
		fmt.Println(api.UserMessage(err))
		return err
	}

	fmt.Println("Account created, you can log in now.")
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
//
// On a 401 the generic "incorrect email or password" is shown and no token
// is stored; the user stays on the unauthenticated command set. On success
// the session is persisted and the prompt picks up the identity.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		fmt.Println(api.UserMessage(err))
		return err
	}

	fmt.Println("Login successful")
	return nil
}

// Logout clears the persisted session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		fmt.Println(api.UserMessage(err))
		return err
	}
	fmt.Println("Logged out")
	return nil
}

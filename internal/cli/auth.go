package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// Register creates an account. The password rules are shown before the
// prompts and the password is asked twice.
func (a *App) Register(ctx context.Context) error {
	return a.withService(ctx, func(s DataService) error {
		a.println(s.PasswordPolicy())

		userName, err := GetSimpleText(a.reader, "Enter username (5-20 letters or digits)", a.out)
		if err != nil {
			return err
		}
		password, err := GetPassword("Enter password", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)

		confirm, err := GetPassword("Repeat password", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(confirm)

		if string(password) != string(confirm) {
			a.println("Passwords do not match.")
			return common.ErrInvalidPassword
		}

		return a.report(s.Register(ctx, userName, string(password)))
	})
}

func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		a.println("Already logged in as", a.userName)
		return common.ErrAlreadyLoggedIn
	}

	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.withService(ctx, func(s DataService) error {
		res := s.Login(ctx, userName, string(password))
		if err := a.report(res); err != nil {
			if errors.Is(err, common.ErrAlreadyLoggedIn) {
				a.println("Use 'clear' to end the other session.")
			}
			return err
		}
		a.userName, a.userID, a.token = userName, res.ID, res.Token
		return nil
	})
}

// ClearSessions ends every session of an account after re-checking its
// password.
func (a *App) ClearSessions(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.withService(ctx, func(s DataService) error {
		auth := s.Authenticate(ctx, userName, string(password))
		if !auth.Success {
			return a.report(auth)
		}
		if err := a.report(s.ClearSessions(ctx, auth.ID)); err != nil {
			return err
		}
		if auth.ID == a.userID {
			a.forget()
		}
		return nil
	})
}

// Logout ends the session. Local state is cleared even if the database
// could not be reached.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return nil
	}
	token := a.token
	a.forget()

	return a.withService(ctx, func(s DataService) error {
		return a.report(s.Logout(ctx, token))
	})
}

func (a *App) forget() {
	a.userName, a.userID, a.token = "", 0, ""
}

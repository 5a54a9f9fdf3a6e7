package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"silicon.com/app/internal/backend"
)

var errNotLoggedIn = errors.New("not signed in: run `admin login` first")

type session struct {
	Token   string `json:"token"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Backend string `json:"backend"`
}

func loadSession(path string) (session, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return session{}, errNotLoggedIn
	}
	if err != nil {
		return session{}, err
	}
	var s session
	if err := json.Unmarshal(raw, &s); err != nil {
		return session{}, fmt.Errorf("session %s: %w", path, err)
	}
	if s.Token == "" {
		return session{}, errNotLoggedIn
	}
	return s, nil
}

func saveSession(path string, s session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// authed returns a client carrying the saved admin token. A session saved
// against another backend is refused.
func (a *app) authed() (*backend.Client, session, error) {
	s, err := loadSession(a.sessionPath)
	if err != nil {
		return nil, session{}, err
	}
	if s.Backend != "" && s.Backend != a.client.BaseURL() {
		return nil, session{}, fmt.Errorf("session belongs to %s, not %s: sign in again", s.Backend, a.client.BaseURL())
	}
	return a.client.WithToken(s.Token), s, nil
}

func loginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as an admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				err := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().Title("Email").Value(&email).Validate(notBlank),
						huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password).Validate(notBlank),
					),
				).Run()
				if err != nil {
					return err
				}
			}

			res, err := a.client.Login(cmd.Context(), backend.LoginInput{
				Email:    strings.ToLower(strings.TrimSpace(email)),
				Password: password,
			})
			if err != nil {
				a.log.Warn("login_failed", zap.String("email", email), zap.Error(err))
				return err
			}
			if res.User.Role != "admin" {
				return fmt.Errorf("%s is not an admin", res.User.Email)
			}
			s := session{Token: res.Token, Email: res.User.Email, Role: res.User.Role, Backend: a.client.BaseURL()}
			if err := saveSession(a.sessionPath, s); err != nil {
				return err
			}
			a.log.Info("login", zap.String("email", s.Email))
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", s.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (prompted when empty)")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.Remove(a.sessionPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

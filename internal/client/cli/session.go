package cli

import (
	"fmt"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/iudanet/fishlog/internal/client/auth"
	"github.com/iudanet/fishlog/internal/client/iocli"
)

func (c *Cli) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register a new account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			c.io.Println("=== Registration ===")
			c.io.Println()

			var form auth.RegisterForm
			err = iocli.Ask(c.io,
				iocli.Field{Label: "Username", Dest: &form.Username},
				iocli.Field{Label: "Email", Dest: &form.Email},
				iocli.Field{Label: "Full name", Dest: &form.FullName},
				iocli.Field{Label: "Password", Hint: "min 6 chars", Secret: true, Dest: &form.Password},
				iocli.Field{Label: "Confirm password", Secret: true, Dest: &form.ConfirmPassword},
			)
			if err != nil {
				return err
			}

			session, err := a.Store.Register(cmd.Context(), form)
			if err != nil {
				return err
			}

			c.io.Println()
			c.io.Println("✓ Registration successful!")
			c.io.Printf("Signed in as %s (%s)\n", session.User.Username, session.User.Role)
			return nil
		},
	}
}

func (c *Cli) loginCommand() *cobra.Command {
	var returnTo string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			c.io.Println("=== Login ===")
			c.io.Println()

			var form auth.LoginForm
			err = iocli.Ask(c.io,
				iocli.Field{Label: "Username", Dest: &form.Username},
				iocli.Field{Label: "Password", Secret: true, Dest: &form.Password},
			)
			if err != nil {
				return err
			}

			session, err := a.Store.Login(cmd.Context(), form.Username, form.Password)
			if err != nil {
				return err
			}

			c.io.Println()
			c.io.Println("✓ Login successful!")
			c.io.Printf("Username: %s\n", session.User.Username)
			c.io.Printf("Role: %s\n", session.User.Role)

			if returnTo != "" {
				c.Navigate(returnTo)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&returnTo, "return-to", "", "command to continue with after sign in")

	return cmd
}

func (c *Cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			wasAuthenticated := a.Store.IsAuthenticated()
			if err := a.Store.Logout(cmd.Context()); err != nil {
				return err
			}

			if wasAuthenticated {
				c.io.Println("✓ Logged out")
			} else {
				c.io.Println("Not logged in")
			}
			return nil
		},
	}
}

const statusTemplate = `=== Authentication Status ===

{{ if .Authenticated -}}
Status:   Authenticated
Username: {{ .Username }}
Role:     {{ .Role }}
{{- if .Email }}
Email:    {{ .Email }}
{{- end }}
Expires:  {{ .Expires }}
{{ else -}}
Status: Not authenticated

Run 'fishlog login' to authenticate.
{{ end -}}
`

var statusTmpl = template.Must(template.New("status").Parse(statusTemplate))

type statusView struct {
	Username      string
	Role          string
	Email         string
	Expires       string
	Authenticated bool
}

func (c *Cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			var view statusView
			if user := a.Store.CurrentUser(); user != nil {
				view = statusView{
					Authenticated: true,
					Username:      user.Username,
					Role:          string(user.Role),
					Email:         user.Email,
					Expires:       "unknown",
				}
				if token, ok := a.Store.Token(cmd.Context()); ok {
					view.Expires = tokenExpiry(token, time.Now())
				}
			}

			return statusTmpl.Execute(c.io, view)
		},
	}
}

// tokenExpiry читает exp из JWT без проверки подписи.
// Непрозрачный токен дает "unknown".
func tokenExpiry(token string, now time.Time) string {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "unknown"
	}
	if claims.ExpiresAt == nil {
		return "unknown"
	}

	exp := claims.ExpiresAt.UTC()
	relative := humanize.RelTime(exp, now, "ago", "from now")
	if !exp.After(now) {
		return fmt.Sprintf("%s (expired %s)", exp.Format(time.RFC3339), relative)
	}
	return fmt.Sprintf("%s (%s)", exp.Format(time.RFC3339), relative)
}

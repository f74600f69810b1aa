package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/bukafresh-client/internal/app/bukafresh"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
	verificationservice "github.com/magabrotheeeer/bukafresh-client/internal/services/verification"
)

// passwordEnv — переменная окружения с паролем, если флаг не задан.
const passwordEnv = "BUKAFRESH_PASSWORD"

func passwordFrom(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if p := os.Getenv(passwordEnv); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("password is required: pass --password or set %s", passwordEnv)
}

func (r *runner) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFrom(password)
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				user, err := a.Session.Login(ctx, email, pw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (or $"+passwordEnv+")")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (r *runner) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session and cached data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				if err := a.Session.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func (r *runner) registerCmd() *cobra.Command {
	var req models.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account; a verification email is sent",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFrom(req.Password)
			if err != nil {
				return err
			}
			req.Password = pw
			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				msg, err := a.Session.Register(ctx, req)
				if err != nil {
					return err
				}
				if msg == "" {
					msg = "Account created. Check your inbox to verify your email."
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.StringVar(&req.Email, "email", "", "email")
	f.StringVar(&req.Password, "password", "", "password (or $"+passwordEnv+")")
	f.StringVar(&req.Phone, "phone", "", "phone, +234XXXXXXXXXX or 0XXXXXXXXXX")
	for _, name := range []string{"first-name", "last-name", "email", "phone"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (r *runner) verifyCmd() *cobra.Command {
	var token, userID string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Confirm an email address with the token from the verification link",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				flow := verificationservice.NewFlow(a.Session, token, userID, 0, a.Logger())
				view := flow.Run(ctx)
				if err := printJSON(cmd.OutOrStdout(), view); err != nil {
					return err
				}
				if view.State != verificationservice.StateSuccess {
					return errors.New(view.Message)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token from the verification link")
	cmd.Flags().StringVar(&userID, "user-id", "", "userId from the verification link")
	return cmd
}

func (r *runner) resendCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "resend",
		Short: "Send the verification email again",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				flow := verificationservice.NewFlow(a.Session, "", "", 0, a.Logger())
				if err := flow.Resend(ctx, email); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Verification email has been sent to your inbox")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (r *runner) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				st := map[string]any{
					"authenticated": a.Session.IsAuthenticated(),
				}
				if u := a.Session.User(); u != nil {
					st["user"] = u
				}
				if expired, err := a.Session.TokenExpired(); err == nil {
					st["tokenExpired"] = expired
				}
				return printJSON(cmd.OutOrStdout(), st)
			})
		},
	}
}

func (r *runner) profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				p, err := a.Profile.Profile(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), p)
			})
		},
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"
	"denuncia/backend/internal/session"

	"github.com/spf13/cobra"
)

type adminStore interface {
	CreateAdmin(ctx context.Context, a *models.Admin) error
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// createAdmin validates and stores a new administrator account.
func createAdmin(ctx context.Context, s adminStore, email, name string, role models.Role, password string) (*models.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	if name == "" {
		return nil, fmt.Errorf("display name is required")
	}
	if role != models.RoleAdmin && role != models.RoleAnalyst {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if _, err := s.GetAdminByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("administrator %s already exists", email)
	}
	hash, err := session.HashPassword(password)
	if err != nil {
		return nil, err
	}
	a := &models.Admin{Email: email, DisplayName: name, Role: role, PasswordHash: hash}
	if err := s.CreateAdmin(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func createAdminCmd() *cobra.Command {
	var email, name, role, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Creates an administrator who can sign in to the portal.

The password is read from --password or, when omitted, from ADMIN_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			a, err := createAdmin(cmd.Context(), store, email, name, models.Role(role), password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Administrator %s (%s) created with id %s.\n", a.DisplayName, a.Email, a.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "sign-in email")
	cmd.Flags().StringVar(&name, "name", "", "display name shown on messages")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "admin or analyst")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func writeCases(w io.Writer, cases []models.Case) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCATEGORY\tANONYMOUS\tCREATED")
	for _, c := range cases {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", c.ID, c.Status, c.Category, c.Anonymous, c.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func listCmd() *cobra.Command {
	var status, as string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cases, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := actingAs(cmd.Context(), as)
			if err != nil {
				return err
			}
			cases, err := service().ListCases(cmd.Context(), sess, models.Status(strings.ToUpper(status)))
			if err != nil {
				return err
			}
			writeCases(cmd.OutOrStdout(), cases)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only cases in this status")
	cmd.Flags().StringVar(&as, "as", "", "administrator email")
	return cmd
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid case id %q", raw)
	}
	return uint(id), nil
}

func showCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a case and its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := actingAs(cmd.Context(), as)
			if err != nil {
				return err
			}
			svc := service()
			c, err := svc.CaseByID(cmd.Context(), sess, id)
			if err != nil {
				return err
			}
			msgs, err := svc.MessagesByID(cmd.Context(), sess, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "#%d  %s  %s\n\n%s\n\n", c.ID, c.Status, c.Category, c.Description)
			for _, m := range msgs {
				fmt.Fprintf(out, "[%s] %s: %s\n", m.SentAt.Format("2006-01-02 15:04"), m.Author, m.Body)
			}
			if targets := policy.StatusTargets(policy.ModeID, true, c.Status); len(targets) > 0 {
				fmt.Fprintf(out, "\nNext statuses: %v\n", targets)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "administrator email")
	return cmd
}

func setStatusCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Move a case to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := actingAs(cmd.Context(), as)
			if err != nil {
				return err
			}
			c, err := service().SetStatus(cmd.Context(), sess, id, models.Status(strings.ToUpper(args[1])))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Case %d is now %s.\n", c.ID, c.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "administrator email")
	return cmd
}

func replyCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "reply <id> <message>",
		Short: "Answer the reporter of a case",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := actingAs(cmd.Context(), as)
			if err != nil {
				return err
			}
			msg, err := service().AppendByID(cmd.Context(), sess, id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent as %s.\n", msg.Author)
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "administrator email")
	return cmd
}

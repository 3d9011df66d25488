package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"denuncia/backend/internal/client"
	"denuncia/backend/internal/config"
	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"
	"denuncia/backend/internal/tracker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type caseRef struct {
	token string
	id    uint
}

func (r *caseRef) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.token, "token", "", "follow-up code")
	cmd.Flags().UintVar(&r.id, "id", 0, "case id (administrators)")
	cmd.MarkFlagsMutuallyExclusive("token", "id")
	cmd.MarkFlagsOneRequired("token", "id")
}

// open resolves who is acting and builds a tracker over the referenced case.
func (r *caseRef) open(ctx context.Context, opts ...tracker.Option) (*tracker.Tracker, error) {
	c := newClient()
	actor, err := c.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}
	var h *client.CaseHandle
	if r.token != "" {
		h = c.ByToken(r.token)
	} else {
		h = c.ByID(r.id)
	}
	opts = append([]tracker.Option{tracker.WithLogger(logger)}, opts...)
	return tracker.New(h, h.Mode(), actor, opts...), nil
}

// explain turns a failed operation into the banner the view would show.
func explain(w io.Writer, err error) error {
	n := policy.NoticeFor(err)
	if n.Log {
		logger.Error("operation failed", zap.Error(err))
	}
	fmt.Fprintf(w, "! %s\n", noticeText(loc, lang, n))
	var rej *policy.RejectedError
	if errors.As(err, &rej) && rej.Message != "" {
		fmt.Fprintf(w, "  %s\n", rej.Message)
	}
	return err
}

func submitCmd() *cobra.Command {
	var in client.NewCase
	var category string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new report",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Category = models.Category(strings.ToUpper(category))
			token, err := newClient().CreateCase(cmd.Context(), in)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc.Format(lang, "cli.case_created", token))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", string(models.CategoryOther), "report category")
	cmd.Flags().StringVar(&in.Description, "description", "", "what happened")
	cmd.Flags().BoolVar(&in.Anonymous, "anonymous", true, "submit without identification")
	cmd.Flags().StringVar(&in.Name, "name", "", "reporter name")
	cmd.Flags().StringVar(&in.Email, "email", "", "reporter email")
	cmd.Flags().StringSliceVar(&in.Evidence, "evidence", nil, "uploaded evidence keys")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as an administrator and print the session token",
		Long: `Signs in and prints the session token. Export it as DENUNCIA_SESSION
or pass it with --session to act as an administrator.

The password is read from --password or DENUNCIA_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("DENUNCIA_PASSWORD")
			}
			sess, err := newClient().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sess.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "administrator email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func viewCmd() *cobra.Command {
	var ref caseRef
	var watch bool
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show a case, its messages and what can be done next",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !watch {
				t, err := ref.open(cmd.Context())
				if err != nil {
					return explain(cmd.ErrOrStderr(), err)
				}
				err = t.Refresh(cmd.Context())
				renderSnapshot(out, loc, lang, t.Snapshot())
				return err
			}

			t, err := ref.open(cmd.Context(), tracker.OnChange(func(s tracker.Snapshot) {
				fmt.Fprintln(out, strings.Repeat("-", 40))
				renderSnapshot(out, loc, lang, s)
			}))
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			defer t.Stop()
			t.Run(cmd.Context(), interval)
			if t.Snapshot().Closed {
				return errors.New("view closed")
			}
			return nil
		},
	}
	ref.bind(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling for changes")
	cmd.Flags().DurationVar(&interval, "interval", config.PollInterval, "polling interval with --watch")
	return cmd
}

func sendCmd() *cobra.Command {
	var ref caseRef
	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send a message on a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ref.open(cmd.Context())
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			if err := t.Refresh(cmd.Context()); err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			t.SetDraft(strings.TrimSpace(args[0]))
			if _, err := t.Send(cmd.Context()); err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc.GetString(lang, "cli.sent"))
			renderSnapshot(cmd.OutOrStdout(), loc, lang, t.Snapshot())
			return nil
		},
	}
	ref.bind(cmd)
	return cmd
}

func statusCmd() *cobra.Command {
	var id uint
	cmd := &cobra.Command{
		Use:   "status <status>",
		Short: "Change the status of a case (administrators)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := caseRef{id: id}
			t, err := ref.open(cmd.Context())
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			if err := t.Refresh(cmd.Context()); err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			target := models.Status(strings.ToUpper(args[0]))
			if err := t.ChangeStatus(cmd.Context(), target); err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc.Format(lang, "cli.status_changed", statusLabel(loc, lang, target)))
			return nil
		},
	}
	cmd.Flags().UintVar(&id, "id", 0, "case id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func followCmd() *cobra.Command {
	var id uint
	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Become the administrator following a case",
		RunE: func(cmd *cobra.Command, args []string) error {
			prev, err := newClient().Follow(cmd.Context(), id)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			if prev != "" {
				fmt.Fprintln(cmd.OutOrStdout(), loc.Format(lang, "cli.taken_over", prev))
			}
			return nil
		},
	}
	cmd.Flags().UintVar(&id, "id", 0, "case id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

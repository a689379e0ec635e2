package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"netra/internal/platform/logger"
	"netra/internal/signup"
)

// rootFlags holds flags shared by every command.
type rootFlags struct {
	server   string
	timeout  time.Duration
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:          "netra-signup",
		Short:        "Verify a clinic license and create a Netra account",
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.server, "server", envOr("NETRA_SERVER", "http://localhost:8080"), "Netra API base URL")
	pf.DurationVar(&flags.timeout, "timeout", 10*time.Second, "Per-request timeout")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Log level for diagnostics on stderr")

	root.AddCommand(newVerifyCmd(&flags), newCreateCmd(&flags))
	return root
}

func newVerifyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <hfr-id>",
		Short: "Check a clinic license (HFR ID) against the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return verify(cmd, newWorkflow(cmd, flags), args[0], flags.timeout)
		},
	}
}

type createFlags struct {
	hfrID    string
	name     string
	password string
	profile  map[string]string
}

func newCreateCmd(flags *rootFlags) *cobra.Command {
	var cf createFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Verify a license, then create an account for the clinic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := newWorkflow(cmd, flags)
			if err := verify(cmd, w, cf.hfrID, flags.timeout); err != nil {
				return err
			}
			receipt, err := w.Submit(cmd.Context(), cf.name, cf.password, cf.profile)
			if err != nil {
				return fmt.Errorf("account creation failed: %s", userMessage(err))
			}
			cmd.Printf("%s Account ID: %s\n", receipt.Message, receipt.AccountID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cf.hfrID, "hfr-id", "", "Clinic license key (HFR ID)")
	f.StringVar(&cf.name, "name", "", "Account holder name")
	f.StringVar(&cf.password, "password", os.Getenv("NETRA_PASSWORD"), "Account password (or NETRA_PASSWORD)")
	f.StringToStringVar(&cf.profile, "profile", nil, "Extra profile fields as key=value pairs")
	_ = cmd.MarkFlagRequired("hfr-id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newWorkflow(cmd *cobra.Command, flags *rootFlags) *signup.Workflow {
	client := signup.NewClient(flags.server)
	return signup.New(client, client,
		signup.WithLogger(logger.NewWithWriter(cmd.ErrOrStderr(), flags.logLevel)),
	)
}

// verify runs one verification and reports the outcome on stdout.
func verify(cmd *cobra.Command, w *signup.Workflow, hfrID string, timeout time.Duration) error {
	if err := w.EditLicense(hfrID); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	state, err := w.Verify(ctx)
	if err != nil {
		return fmt.Errorf("verification failed: %s", userMessage(err))
	}
	switch s := state.(type) {
	case signup.Verified:
		cmd.Printf("Clinic Verified: %s\n", s.Clinic.Name)
		if s.Clinic.Address != "" {
			cmd.Printf("Address: %s\n", s.Clinic.Address)
		}
		return nil
	case signup.Failed:
		return fmt.Errorf("verification failed: %s", s.Reason)
	default:
		return fmt.Errorf("verification ended in state %s", state.Status())
	}
}

// userMessage prefers the server's message over transport detail.
func userMessage(err error) string {
	var rejected *signup.RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	return err.Error()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

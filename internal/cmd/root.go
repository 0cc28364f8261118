package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zfogg/moodjournal/pkg/config"
	apperrors "github.com/zfogg/moodjournal/pkg/errors"
	"github.com/zfogg/moodjournal/pkg/guard"
	"github.com/zfogg/moodjournal/pkg/logger"
	"github.com/zfogg/moodjournal/pkg/output"
)

// guardAnnotation names the guard.Kind a command runs under.
const guardAnnotation = "guard"

var (
	verbose    bool
	configPath string
	outputFmt  string
)

// errNotAuthenticated is returned when a protected command runs without a
// session. The redirect hint has already been printed.
var errNotAuthenticated = apperrors.MarkReported(errors.New("not logged in"))

// decision is the guard outcome for the command being run.
var decision guard.Decision

var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "Mood Journal CLI - Track how you feel, one entry at a time",
	Long: `Mood Journal CLI is a command-line client for the Mood Journal API.
Write journal entries, tag them with your mood and follow your emotional
trends from the terminal.`,
	Annotations:       map[string]string{guardAnnotation: string(guard.KindLanding)},
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if decision.Action == guard.Redirect {
			// Already signed in; the landing page is the dashboard.
			return runEntryList(cmd, "")
		}
		output.PrintInfo("Welcome to Mood Journal.")
		output.PrintInfo("Run 'journal auth login' to sign in or 'journal auth signup' to create an account.")
		return nil
	},
}

// setup loads config and logging, builds the runtime, hydrates the session
// and applies the command's guard.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	logger.Init(verbose)

	if cmd.Flags().Changed("output") {
		if !output.ValidateOutputFormat(outputFmt) {
			return apperrors.Validation(fmt.Sprintf("unknown output format %q (want text, json or table)", outputFmt))
		}
		config.Set("output.format", outputFmt)
	}

	kind := guardKind(cmd)
	if kind == guard.KindNone {
		return nil
	}

	var err error
	if rt, err = newRuntime(); err != nil {
		return err
	}

	if err := rt.session.Hydrate(cmd.Context()); err != nil && apperrors.Is(err, apperrors.KindNetwork) {
		output.PrintWarning("%s", apperrors.MessageOf(err, "Could not reach the journal server"))
	}

	decision = guard.For(kind)(rt.session.Snapshot())
	logger.Debug("Guard", "command", cmd.CommandPath(), "guard", kind, "decision", decision)

	switch decision.Action {
	case guard.Wait:
		// Hydrate has returned, so the session is always checked here.
		return errors.New("session check did not finish")
	case guard.Redirect:
		if kind == guard.KindLanding {
			return nil
		}
		if decision.To == guard.LoginRoute {
			output.PrintWarning("You need to be logged in to do that.")
			rt.router.Navigate(decision.To)
			return errNotAuthenticated
		}
		rt.router.Navigate(decision.To)
	}
	return nil
}

// guardKind returns the guard declared by cmd or its nearest ancestor.
func guardKind(cmd *cobra.Command) guard.Kind {
	// help and the hidden shell-completion commands never touch the session
	if cmd.Name() == "help" || strings.HasPrefix(cmd.Name(), "__") {
		return guard.KindNone
	}
	for c := cmd; c != nil; c = c.Parent() {
		if kind, ok := c.Annotations[guardAnnotation]; ok {
			return guard.Kind(kind)
		}
	}
	return guard.KindProtected
}

func withGuard(kind guard.Kind) map[string]string {
	return map[string]string{guardAnnotation: string(kind)}
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	if rt != nil {
		rt.close()
	}
	stop()
	_ = logger.Close()

	if err != nil {
		if !apperrors.IsReported(err) {
			fmt.Fprint(os.Stderr, apperrors.Format(err))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/moodjournal/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "text", "Output format: text, json, table")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

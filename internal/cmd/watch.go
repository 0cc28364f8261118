package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/zfogg/moodjournal/pkg/client"
	"github.com/zfogg/moodjournal/pkg/config"
	"github.com/zfogg/moodjournal/pkg/focus"
	"github.com/zfogg/moodjournal/pkg/guard"
	"github.com/zfogg/moodjournal/pkg/output"
	"github.com/zfogg/moodjournal/pkg/session"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the session checked while the terminal stays open",
	Long: `Re-checks the session whenever the process returns to the foreground
(SIGCONT) and, if an interval is set, periodically. Exits once the session
ends.`,
	Annotations: withGuard(guard.KindProtected),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		watching := make(chan struct{})
		defer func() {
			cancel()
			<-watching
		}()

		interval := config.GetDuration("session.focus_interval")
		if cmd.Flags().Changed("interval") {
			interval = watchInterval
		}

		// Re-apply the route guard on every session change.
		unsubscribe := rt.session.Subscribe(func(s session.Snapshot) {
			if d := guard.Protected(s); d.Action == guard.Redirect {
				rt.router.Navigate(d.To)
			}
		})
		defer unsubscribe()

		events := focus.Merge(focus.Signals(ctx), focus.Every(ctx, interval))
		go func() {
			defer close(watching)
			rt.session.WatchFocus(ctx, events)
		}()

		output.PrintInfo("Watching session for %s. Press Ctrl+C to stop.", rt.session.Snapshot().User.Field("userName"))
		for {
			select {
			case <-ctx.Done():
				return nil
			case route := <-rt.router.Changes():
				if route == client.LoginPath {
					output.PrintWarning("Session ended")
					return nil
				}
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Also re-check on this interval (default from session.focus_interval)")
}

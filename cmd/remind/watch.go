package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/thinkeasyacademy/Dayplanner/internal/app"
	"github.com/thinkeasyacademy/Dayplanner/internal/cache"
	"github.com/thinkeasyacademy/Dayplanner/internal/navstack"
	"github.com/thinkeasyacademy/Dayplanner/internal/platform"
	"github.com/thinkeasyacademy/Dayplanner/internal/session"

	"github.com/spf13/cobra"
)

const watchHelp = "[d] dismiss  [v] view  [s] search  [b] back  [?] state  [q] quit"

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Ring the terminal bell when the user's reminders are due",
		Long: `Samples the clock and fires each task reminder once, at its date and time
minus reminder_minutes. Edits made through the API are picked up immediately.

Keys (followed by Enter): ` + watchHelp,
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed := app.TaskFeeds(e.tasks)(e.user.ID)
	rt := session.NewRuntime(feed, platform.NewTerminal(os.Stdout), app.SessionOptions(e.cfg, e.loc, e.log))
	runCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		<-rt.Done()
	}()
	go rt.Run(runCtx)

	changes := cache.NewChanges(e.rdb)
	go func() {
		err := changes.Listen(runCtx, func(userID int64) {
			if userID != e.user.ID {
				return
			}
			e.tasks.Invalidate(runCtx, userID)
			_ = rt.Tick(runCtx)
		})
		if err != nil && runCtx.Err() == nil {
			e.log.Warn("live updates unavailable, polling only", "error", err)
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "watching reminders of %s (%s)\n%s\n", e.user.Username, e.loc, watchHelp)
	keys := readKeys(ctx, cmd.InOrStdin())
	for {
		select {
		case <-ctx.Done():
			return nil
		case key, ok := <-keys:
			if !ok || key == "q" {
				return nil
			}
			if err := handleKey(ctx, rt, cmd.OutOrStdout(), key); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
		}
	}
}

func handleKey(ctx context.Context, rt *session.Runtime, out io.Writer, key string) error {
	switch key {
	case "d":
		return rt.DismissReminder(ctx)
	case "v":
		t, err := rt.ViewReminder(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n%s\n%s\n", t.Title, t.Description, t.Details)
		return nil
	case "s":
		return rt.OpenOverlay(ctx, navstack.Search)
	case "b":
		closed, err := rt.Back(ctx)
		if err == nil && !closed {
			fmt.Fprintln(out, "nothing to close")
		}
		return err
	case "?":
		st, err := rt.State(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "overlays: %v  fired: %d\n", st.Overlays, st.FiredCount)
		return nil
	case "":
		return nil
	default:
		fmt.Fprintln(out, watchHelp)
		return nil
	}
}

// readKeys emits one lower-cased, trimmed line per Enter until r ends or
// ctx is done.
func readKeys(ctx context.Context, r io.Reader) <-chan string {
	keys := make(chan string)
	go func() {
		defer close(keys)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			if ctx.Err() != nil {
				return
			}
			select {
			case keys <- strings.ToLower(strings.TrimSpace(sc.Text())):
			case <-ctx.Done():
				return
			}
		}
	}()
	return keys
}

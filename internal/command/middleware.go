package command

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"hellabot/pkg/cmd"

	"github.com/rs/zerolog"
)

// WithRecover turns a panic inside the command into an error so the router
// can still tell the user something went wrong.
func WithRecover() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, "recover", func(ctx context.Context, inv *cmd.Invocation) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("command %s panicked: %v\n%s", c.Name(), r, debug.Stack())
				}
			}()
			return c.Run(ctx, inv)
		})
	}
}

// WithCommandLogger logs each slash command execution and its duration.
func WithCommandLogger(log zerolog.Logger) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, "log", func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			ev := log.Info()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			if ic, ok := inv.Data.(*Interaction); ok {
				u := ic.User()
				ev = ev.Str("user_id", u.ID).Str("user", u.Username).Str("guild_id", ic.Event.GuildID)
			}
			ev.Str("command", c.Name()).Dur("took", time.Since(start)).Dur("since_received", inv.Since()).Msg("command executed")
			return err
		})
	}
}

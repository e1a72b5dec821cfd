package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/splash/internal/dbus"
)

var ctlOpts struct {
	busName string
	timeout time.Duration
	append  bool
	delay   time.Duration
}

var ctlCmd = &cobra.Command{
	Use:   "ctl",
	Short: "Control a splash started with --dbus",
	Long: `Control a running splash over the session bus.

  splash show --dbus "Starting" &
  splash ctl message "Loading modules"
  splash ctl progress 40
  splash ctl close --delay 2s`,
}

var ctlMessageCmd = &cobra.Command{
	Use:   "message TEXT",
	Short: "Replace or append to the message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			text := strings.ReplaceAll(args[0], `\n`, "\n")
			return c.UpdateMessage(ctx, text, ctlOpts.append)
		})
	},
}

var ctlColorCmd = &cobra.Command{
	Use:   "color COLOR",
	Short: "Change the background color",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.UpdateColor(ctx, args[0])
		})
	},
}

var ctlStepCmd = &cobra.Command{
	Use:   "step [AMOUNT]",
	Short: "Advance the progress bar (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount := 1.0
		if len(args) == 1 {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid step amount %q: %w", args[0], err)
			}
			amount = v
		}
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.Step(ctx, amount)
		})
	},
}

var ctlProgressCmd = &cobra.Command{
	Use:   "progress VALUE",
	Short: "Set the progress value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "%"), 64)
		if err != nil {
			return fmt.Errorf("invalid progress value %q: %w", args[0], err)
		}
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.SetProgress(ctx, v)
		})
	},
}

var ctlCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the splash",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.Close(ctx, ctlOpts.delay)
		})
	},
}

var ctlStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the splash",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			st, err := c.Status(ctx)
			if err != nil {
				return err
			}
			fmt.Print(formatStatus(st, time.Now()))
			return nil
		})
	},
}

var ctlWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until the splash is closed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := dbus.NewClient(ctlOpts.busName)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		id, err := c.WaitClosed(ctx)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ctlCmd)
	ctlCmd.AddCommand(ctlMessageCmd, ctlColorCmd, ctlStepCmd, ctlProgressCmd,
		ctlCloseCmd, ctlStatusCmd, ctlWaitCmd)

	ctlCmd.PersistentFlags().StringVar(&ctlOpts.busName, "bus-name", "",
		"D-Bus name of the splash (default from config)")
	ctlCmd.PersistentFlags().DurationVar(&ctlOpts.timeout, "timeout", 10*time.Second,
		"How long to wait for the splash to answer")
	ctlMessageCmd.Flags().BoolVarP(&ctlOpts.append, "append", "a", false,
		"Append to the message instead of replacing it")
	ctlCloseCmd.Flags().DurationVar(&ctlOpts.delay, "delay", 0,
		"Close after this long")
}

func withClient(fn func(ctx context.Context, c *dbus.Client) error) error {
	name := ctlOpts.busName
	if name == "" {
		name = cfg.DBus.Name
	}
	c, err := dbus.NewClient(name)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), ctlOpts.timeout)
	defer cancel()
	return fn(ctx, c)
}

// formatStatus renders st for people, with times relative to now.
func formatStatus(st dbus.Status, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:         %s\n", st.ID)
	fmt.Fprintf(&b, "State:      %s\n", st.State)
	if !st.ShownAt.IsZero() {
		fmt.Fprintf(&b, "Shown:      %s\n", humanize.RelTime(st.ShownAt, now, "ago", "from now"))
	}
	fmt.Fprintf(&b, "Geometry:   %s\n", st.Geometry)
	fmt.Fprintf(&b, "Background: %s\n", st.Background)
	if st.HasProgress {
		pct := 0.0
		if st.Max > 0 {
			pct = st.Progress / st.Max * 100
		}
		fmt.Fprintf(&b, "Progress:   %s / %s (%s%%)\n",
			humanize.Ftoa(st.Progress), humanize.Ftoa(st.Max), humanize.FtoaWithDigits(pct, 1))
	}
	fmt.Fprintf(&b, "Message:\n%s\n", indent(st.Message, "  "))
	return b.String()
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/splash/internal/audio"
	"github.com/jmylchreest/splash/internal/config"
	"github.com/jmylchreest/splash/internal/scenario"
	"github.com/jmylchreest/splash/internal/splash"
)

var runOpts struct {
	backend string
	list    bool
}

var runCmd = &cobra.Command{
	Use:   "run [SCENARIO|FILE]",
	Short: "Play a scenario of timed splashes",
	Long: `Play a scenario: a YAML file describing splashes and the updates applied
to them over time.

SCENARIO is looked up as a path, then in ~/.config/splash/scenarios/, then
among the bundled scenarios. Use --list to see what is available.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if runOpts.list {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runScenario,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runOpts.backend, "backend", "", "Toolkit: auto, gtk or term (default from config)")
	runCmd.Flags().BoolVarP(&runOpts.list, "list", "l", false, "List available scenarios")
}

func runScenario(cmd *cobra.Command, args []string) error {
	if runOpts.list {
		for _, name := range scenario.List(config.ScenariosDir()) {
			fmt.Println(name)
		}
		return nil
	}

	sc, err := scenario.Load(args[0], config.ScenariosDir())
	if err != nil {
		return err
	}

	tk, err := openToolkit(config.Backend(runOpts.backend), false)
	if err != nil {
		return err
	}
	defer tk.stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chimes := audio.NewChimes(cfg, logger)
	chimes.Start(ctx)
	defer chimes.Stop()

	player := scenario.NewPlayer(tk, cfg, logger)
	player.SetOnShown(func(s *splash.Splash) {
		chimes.Shown(s)
	})

	logger.Info("playing scenario", "name", sc.Name, "splashes", len(sc.Splashes))
	if err := player.Run(ctx, sc); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := boa.CmdT[PlayerParams]{
		Use:         "sonichealing",
		Short:       "Ambient sound, healing tones and a meditation timer",
		Long:        "Opens the player window. Use the session subcommand for a terminal player.",
		Version:     appVersion(),
		ParamEnrich: defaultParamEnricher(),
		SubCmds: []*cobra.Command{
			sessionCmd(),
			initCmd(),
		},
		RunFunc: func(params *PlayerParams, cmd *cobra.Command, args []string) {
			if err := runPlayer(cmd.Context(), params); err != nil {
				exitWithError(err)
			}
		},
	}.ToCobra()
	return root
}

func defaultParamEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}

func appVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "dev"
	}
	return info.Main.Version
}

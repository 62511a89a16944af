package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/satishbabariya/dynquery/cmd/dynquery/commands"
	"github.com/satishbabariya/dynquery/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx, os.Args[1:])
	stop()

	if err != nil {
		ui.PrintError("%v", err)
		os.Exit(1)
	}
}

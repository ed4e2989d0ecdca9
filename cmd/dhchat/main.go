package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dhchat/cmd/dhchat/commands"
	"dhchat/internal/chaterr"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "dhchat:", chaterr.Diagnostic(err))
		os.Exit(1)
	}
}

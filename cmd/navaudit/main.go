package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/navaudit/cmd/navaudit/commands"
	"git.home.luguber.info/inful/navaudit/internal/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("navaudit"),
		kong.Description("Audit MkDocs monorepo navigation, links and images."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	err := parser.Run(&commands.Global{})
	cancel()
	os.Exit(commands.ExitCode(os.Stderr, err, cli.Verbose))
}

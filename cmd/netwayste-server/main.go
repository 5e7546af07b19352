package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/conwayste/netwayste"
	"github.com/conwayste/netwayste/logging"
)

func main() {
	var listen string
	var verbose bool
	var version string

	cmd := &cobra.Command{
		Use:   "netwayste-server",
		Short: "Run a netwayste game server",
		Long: `netwayste-server listens for clients and relays rooms, chat,
and universe updates between them.

Complete documentation is available at https://github.com/conwayste/netwayste`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logFunc := func(l logging.Level, format string, a ...any) {
				if !verbose && l < logging.Warn {
					return
				}
				log.Printf(fmt.Sprintf("%s: %s\n", l, format), a...)
			}

			srv, err := netwayste.NewServer(listen,
				netwayste.WithServerVersion(version),
				netwayste.WithLogFunc(logFunc),
			)
			if err != nil {
				return errors.Wrapf(err, "listen on %s", listen)
			}

			ctx, cancel := context.WithCancel(context.Background())
			runErr := make(chan error, 1)
			go func() { runErr <- srv.Run(ctx) }()

			ch := make(chan os.Signal, 32)
			signal.Notify(ch, unix.SIGINT)
			signal.Notify(ch, unix.SIGQUIT)
			signal.Notify(ch, unix.SIGTERM)

			select {
			case <-ch:
			case err := <-runErr:
				cancel()
				srv.Close()
				return err
			}

			cancel()
			srv.Close()
			<-runErr
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&listen, "listen", "l", ":2016", "address to listen on")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	flags.StringVar(&version, "server-version", "netwayste-0", "version string reported to clients on login")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

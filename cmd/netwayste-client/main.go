package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/conwayste/netwayste"
	"github.com/conwayste/netwayste/logging"
)

const defaultPort = "2016"

func main() {
	var logLevel string
	var name string

	cmd := &cobra.Command{
		Use:   "netwayste-client <host[:port]>",
		Short: "Connect to a netwayste game server",
		Long: `netwayste-client is a reference CLI client: it logs in, then
relays typed lines as chat and interprets /-prefixed commands to
manage rooms.

Complete documentation is available at https://github.com/conwayste/netwayste`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], name, logLevel)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&logLevel, "log-level", "warn", "minimum level to log: debug, info, warn, error")
	flags.StringVarP(&name, "name", "n", "", "player name to connect as (prompted if omitted)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(addr, name, logLevel string) error {
	addr = withDefaultPort(addr)
	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	logFunc := func(l logging.Level, format string, a ...any) {
		if l < level {
			return
		}
		log.Printf(fmt.Sprintf("%s: %s\n", l, format), a...)
	}

	cli, err := netwayste.NewClient(addr, netwayste.WithLogFunc(logFunc))
	if err != nil {
		return errors.Wrapf(err, "dial %s", addr)
	}
	defer cli.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- cli.Run(ctx) }()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if name == "" {
		name, err = line.Prompt("player name: ")
		if err != nil {
			return err
		}
	}

	version, err := netwayste.DialAndLogin(ctx, cli, name)
	if err != nil {
		return errors.Wrap(err, "login")
	}
	fmt.Printf("connected to server version %s\n", version)

	go printNotifications(cli)

	for {
		text, err := line.Prompt("> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				break
			}
			return err
		}
		line.AppendHistory(text)
		if shouldQuit := dispatchLine(cli, text); shouldQuit {
			break
		}
	}

	cli.Commands() <- netwayste.CmdDisconnect{}
	cancel()
	<-runErr
	return nil
}

// dispatchLine interprets one line of REPL input, returning true if
// the client should quit.
func dispatchLine(cli *netwayste.Client, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if !strings.HasPrefix(text, "/") {
		cli.Commands() <- netwayste.CmdChatMessage{Text: text}
		return false
	}

	fields := strings.SplitN(text, " ", 2)
	cmd := fields[0]
	var arg string
	if len(fields) > 1 {
		arg = strings.TrimSpace(fields[1])
	}

	switch cmd {
	case "/help":
		printHelp()
	case "/connect":
		cli.Connect(arg)
	case "/disconnect":
		cli.Commands() <- netwayste.CmdDisconnect{}
	case "/list":
		cli.Commands() <- netwayste.CmdList{}
	case "/new":
		cli.Commands() <- netwayste.CmdNewRoom{Name: arg}
	case "/join":
		cli.Commands() <- netwayste.CmdJoinRoom{Name: arg}
	case "/leave", "/part":
		cli.Commands() <- netwayste.CmdLeaveRoom{}
	case "/quit":
		return true
	default:
		fmt.Printf("unknown command %q, type /help for a list\n", cmd)
	}
	return false
}

func printHelp() {
	fmt.Println(`/help              print this list
/connect <name>    log in as <name>
/disconnect        disconnect from the server
/list              list rooms, or players if already in one
/new <room>        create and join a new room
/join <room>        join an existing room
/leave, /part      leave the current room
/quit              disconnect and exit
anything else is sent as a chat message`)
}

func printNotifications(cli *netwayste.Client) {
	for n := range cli.Notifications() {
		switch v := n.(type) {
		case netwayste.NotifyJoinedRoom:
			fmt.Printf("* joined %s\n", v.Name)
		case netwayste.NotifyLeftRoom:
			fmt.Println("* left the room")
		case netwayste.NotifyPlayerList:
			fmt.Printf("* players: %s\n", strings.Join(v.Names, ", "))
		case netwayste.NotifyRoomList:
			for _, r := range v.Rooms {
				fmt.Printf("* room %s (%d players)\n", r.Name, r.Players)
			}
		case netwayste.NotifyChatMessages:
			for _, line := range v.Messages {
				fmt.Printf("<%s> %s\n", line.Sender, line.Text)
			}
		case netwayste.NotifyUniverseUpdate:
			// A full client would hand v.Update to a renderer; the
			// reference CLI only relays chat and room state.
		case netwayste.NotifyBadRequest:
			fmt.Printf("! %s\n", msgOrDefault(v.Msg, "bad request"))
		case netwayste.NotifyServerError:
			fmt.Printf("! server error: %s\n", msgOrDefault(v.Msg, "unknown"))
		}
	}
}

func msgOrDefault(msg *string, def string) string {
	if msg == nil {
		return def
	}
	return *msg
}

func withDefaultPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, defaultPort)
}

func parseLevel(s string) (logging.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return logging.Debug, nil
	case "info":
		return logging.Info, nil
	case "warn":
		return logging.Warn, nil
	case "error":
		return logging.Error, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

package netwayste

import (
	"context"
	"testing"
	"time"
)

// newRunningServer starts a Server on an ephemeral loopback port and
// returns it along with its address and a cleanup func.
func newRunningServer(t *testing.T, opts ...Option) (*Server, string, func()) {
	t.Helper()
	srv, err := NewServer("127.0.0.1:0", opts...)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	addr := srv.conn.LocalAddr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cleanup := func() {
		cancel()
		srv.Close()
		<-done
	}
	return srv, addr, cleanup
}

func newRunningClient(t *testing.T, addr string, opts ...Option) (*Client, func()) {
	t.Helper()
	cli, err := NewClient(addr, opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cli.Run(ctx) }()

	cleanup := func() {
		cancel()
		cli.Close()
		<-done
	}
	return cli, cleanup
}

func TestDialAndLoginAndChatRoundTrip(t *testing.T) {
	_, addr, stopServer := newRunningServer(t, WithServerVersion("test-server-1"))
	defer stopServer()

	cli, stopClient := newRunningClient(t, addr)
	defer stopClient()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	version, err := DialAndLogin(ctx, cli, "alice")
	if err != nil {
		t.Fatalf("DialAndLogin: %v", err)
	}
	if version != "test-server-1" {
		t.Fatalf("expected server version test-server-1, got %q", version)
	}

	cli.Commands() <- CmdNewRoom{Name: "arena"}
	waitFor := func() Notification {
		select {
		case n := <-cli.Notifications():
			return n
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for notification")
			return nil
		}
	}
	joined, ok := waitFor().(NotifyJoinedRoom)
	if !ok || joined.Name != "arena" {
		t.Fatalf("expected NotifyJoinedRoom{arena}, got %#v", joined)
	}

	cli.Commands() <- CmdChatMessage{Text: "hello"}
	n := waitFor()
	chat, ok := n.(NotifyChatMessages)
	if !ok || len(chat.Messages) != 1 || chat.Messages[0].Text != "hello" {
		t.Fatalf("expected a chat echo, got %#v", n)
	}
}

func TestDialAndLoginFailsWithoutServer(t *testing.T) {
	cli, stopClient := newRunningClient(t, "127.0.0.1:1")
	defer stopClient()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := DialAndLogin(ctx, cli, "bob", WithRetryLimit(1), WithAttemptTimeout(50*time.Millisecond))
	if err == nil {
		t.Fatal("expected DialAndLogin to fail with no server listening")
	}
}

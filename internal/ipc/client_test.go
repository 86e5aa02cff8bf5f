package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/wardrobe-mods/wardrobe/internal/apperr"
	"github.com/wardrobe-mods/wardrobe/internal/logging"
	"github.com/wardrobe-mods/wardrobe/internal/progress"
)

func testLogger() *logging.Logger {
	return logging.New(io.Discard)
}

// startFakeDaemon serves connections with the given per-connection
// handler on a temp socket and returns the socket path.
func startFakeDaemon(t *testing.T, handle func(net.Conn)) string {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "daemon.sock")
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				handle(conn)
			}(conn)
		}
	}()
	return socketPath
}

// respondWith answers every request on a connection with one fixed line.
func respondWith(line string) func(net.Conn) {
	return func(conn net.Conn) {
		reader := bufio.NewReader(conn)
		if _, err := reader.ReadBytes('\n'); err != nil {
			return
		}
		conn.Write([]byte(line + "\n"))
	}
}

func TestClientInvoke_Success(t *testing.T) {
	var gotCommand string
	socketPath := startFakeDaemon(t, func(conn net.Conn) {
		data, err := bufio.NewReader(conn).ReadBytes('\n')
		if err != nil {
			return
		}
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			return
		}
		gotCommand = req.Command
		conn.Write([]byte(`{"ok":true,"value":[{"id":"m1","name":"Alpha","enabled":true}]}` + "\n"))
	})

	client := NewClient(socketPath, 2*time.Second, testLogger())
	raw, err := client.Invoke(context.Background(), "mods_list", nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if gotCommand != "mods_list" {
		t.Errorf("daemon saw command %q", gotCommand)
	}

	var mods []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &mods); err != nil {
		t.Fatalf("value decode: %v", err)
	}
	if len(mods) != 1 || mods[0].ID != "m1" {
		t.Errorf("value = %s", raw)
	}
}

func TestClientInvoke_SendsArgs(t *testing.T) {
	var gotArgs string
	socketPath := startFakeDaemon(t, func(conn net.Conn) {
		data, _ := bufio.NewReader(conn).ReadBytes('\n')
		var req Request
		json.Unmarshal(data, &req)
		gotArgs = string(req.Args)
		conn.Write([]byte(`{"ok":true,"value":{}}` + "\n"))
	})

	client := NewClient(socketPath, 2*time.Second, testLogger())
	args := map[string]any{"modId": "m1", "enabled": true}
	if _, err := client.Invoke(context.Background(), "mod_toggle", args); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if gotArgs != `{"enabled":true,"modId":"m1"}` {
		t.Errorf("daemon saw args %s", gotArgs)
	}
}

func TestClientInvoke_DaemonError(t *testing.T) {
	socketPath := startFakeDaemon(t, respondWith(
		`{"ok":false,"error":{"code":"PATCHER_RUNNING","message":"patcher holds the game files"}}`))

	client := NewClient(socketPath, 2*time.Second, testLogger())
	_, err := client.Invoke(context.Background(), "mod_toggle", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.IsCode(err, apperr.CodePatcherRunning) {
		t.Errorf("error = %v, want PATCHER_RUNNING", err)
	}
}

func TestClientInvoke_NoDaemon(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "nonexistent.sock")
	client := NewClient(socketPath, 100*time.Millisecond, testLogger())

	_, err := client.Invoke(context.Background(), "mods_list", nil)
	if err == nil {
		t.Fatal("expected error without a daemon")
	}
	if !apperr.IsCode(err, apperr.CodeIO) {
		t.Errorf("error = %v, want IO classification", err)
	}
}

func TestClientInvoke_MalformedResponse(t *testing.T) {
	socketPath := startFakeDaemon(t, respondWith(`this is not json`))

	client := NewClient(socketPath, 2*time.Second, testLogger())
	_, err := client.Invoke(context.Background(), "mods_list", nil)
	if !apperr.IsCode(err, apperr.CodeSerialization) {
		t.Errorf("error = %v, want SERIALIZATION classification", err)
	}
}

func TestClientSubscribe_StreamsUpdates(t *testing.T) {
	socketPath := startFakeDaemon(t, func(conn net.Conn) {
		reader := bufio.NewReader(conn)
		data, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}
		var req Request
		json.Unmarshal(data, &req)
		if req.Command != "events_subscribe" {
			conn.Write([]byte(`{"ok":false,"error":{"code":"UNKNOWN","message":"bad command"}}` + "\n"))
			return
		}
		conn.Write([]byte(`{"ok":true}` + "\n"))
		conn.Write([]byte(`{"event":"progress","kind":"install","operationId":"op-1","stage":"extract","fraction":0.3}` + "\n"))
		conn.Write([]byte(`{"event":"progress","kind":"install","operationId":"op-1","stage":"register","fraction":1,"done":true}` + "\n"))
	})

	client := NewClient(socketPath, 2*time.Second, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := client.Subscribe(ctx, progress.KindInstall)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	var got []progress.Update
	deadline := time.After(2 * time.Second)
	for {
		select {
		case u, open := <-updates:
			if !open {
				if len(got) != 2 {
					t.Fatalf("got %d updates, want 2: %+v", len(got), got)
				}
				if got[0].Stage != "extract" || !got[1].Done {
					t.Errorf("updates = %+v", got)
				}
				return
			}
			got = append(got, u)
		case <-deadline:
			t.Fatalf("timeout, got %d updates", len(got))
		}
	}
}

func TestClientSubscribe_Refused(t *testing.T) {
	socketPath := startFakeDaemon(t, respondWith(
		`{"ok":false,"error":{"code":"INTERNAL_STATE","message":"event bus not ready"}}`))

	client := NewClient(socketPath, 2*time.Second, testLogger())
	_, err := client.Subscribe(context.Background(), progress.KindInstall)
	if !apperr.IsCode(err, apperr.CodeInternalState) {
		t.Errorf("error = %v, want INTERNAL_STATE", err)
	}
}

func TestClientSubscribe_CancelClosesStream(t *testing.T) {
	block := make(chan struct{})
	socketPath := startFakeDaemon(t, func(conn net.Conn) {
		reader := bufio.NewReader(conn)
		if _, err := reader.ReadBytes('\n'); err != nil {
			return
		}
		conn.Write([]byte(`{"ok":true}` + "\n"))
		<-block // hold the stream open without sending anything
	})
	defer close(block)

	client := NewClient(socketPath, 2*time.Second, testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	updates, err := client.Subscribe(ctx, progress.KindInstall)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	cancel()

	select {
	case _, open := <-updates:
		if open {
			t.Error("expected closed channel after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after cancel")
	}
}

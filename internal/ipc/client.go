package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/wardrobe-mods/wardrobe/internal/apperr"
	"github.com/wardrobe-mods/wardrobe/internal/logging"
	"github.com/wardrobe-mods/wardrobe/internal/progress"
)

const commandSubscribe = "events_subscribe"

// Client is the transport to the wardrobe daemon. Each Invoke uses one
// connection for one request/response pair; Subscribe holds its
// connection open and turns it into an event stream.
type Client struct {
	socketPath string
	timeout    time.Duration
	log        *logging.Logger
}

// NewClient creates a transport for the given socket. A zero timeout
// disables per-call deadlines.
func NewClient(socketPath string, timeout time.Duration, log *logging.Logger) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath()
	}
	return &Client{
		socketPath: socketPath,
		timeout:    timeout,
		log:        log.Component("ipc"),
	}
}

// SocketPath returns the socket this client dials.
func (c *Client) SocketPath() string { return c.socketPath }

func (c *Client) connect(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, apperr.New(apperr.CodeIO, "cannot reach daemon: %v", err).
			WithContext("socket", c.socketPath)
	}
	return conn, nil
}

// Invoke performs one command roundtrip and returns the raw value of a
// successful envelope. Daemon failures come back as the daemon's typed
// error; transport and framing failures are classified as IO and
// SERIALIZATION respectively. No retries happen at this layer.
func (c *Client) Invoke(ctx context.Context, command string, args any) (json.RawMessage, error) {
	req := &Request{Command: command}
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			return nil, apperr.New(apperr.CodeSerialization, "encode %s args: %v", command, err)
		}
		req.Args = data
	}

	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if c.timeout > 0 {
		conn.SetDeadline(time.Now().Add(c.timeout))
	}

	line, err := req.Encode()
	if err != nil {
		return nil, apperr.New(apperr.CodeSerialization, "encode %s request: %v", command, err)
	}
	line = append(line, '\n')

	c.log.Debug().Str("command", command).Msg("invoke")
	if _, err := conn.Write(line); err != nil {
		return nil, apperr.New(apperr.CodeIO, "send %s: %v", command, err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, apperr.New(apperr.CodeIO, "read %s response: %v", command, err)
	}

	resp, err := DecodeResponse(respData)
	if err != nil {
		return nil, apperr.New(apperr.CodeSerialization, "decode %s response: %v", command, err)
	}
	if !resp.OK {
		if resp.Error == nil {
			return nil, apperr.New(apperr.CodeUnknown, "daemon refused %s without detail", command)
		}
		return nil, resp.Error
	}
	return resp.Value, nil
}

type subscribeArgs struct {
	Kinds []string `json:"kinds"`
}

// Subscribe opens a push-mode connection for the given kinds and
// returns a channel of progress updates. The channel closes when ctx is
// cancelled or the daemon drops the connection; events are
// fire-and-forget, so a dropped stream loses nothing that must be
// recovered.
func (c *Client) Subscribe(ctx context.Context, kinds ...progress.Kind) (<-chan progress.Update, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	payload, err := json.Marshal(subscribeArgs{Kinds: names})
	if err != nil {
		conn.Close()
		return nil, apperr.New(apperr.CodeSerialization, "encode subscribe args: %v", err)
	}

	line, err := (&Request{Command: commandSubscribe, Args: payload}).Encode()
	if err != nil {
		conn.Close()
		return nil, apperr.New(apperr.CodeSerialization, "encode subscribe request: %v", err)
	}
	if _, err := conn.Write(append(line, '\n')); err != nil {
		conn.Close()
		return nil, apperr.New(apperr.CodeIO, "send subscribe: %v", err)
	}

	reader := bufio.NewReader(conn)

	// The daemon acknowledges before streaming. Only the ack gets a
	// deadline; the stream lives until cancelled.
	if c.timeout > 0 {
		conn.SetDeadline(time.Now().Add(c.timeout))
	}
	ackData, err := reader.ReadBytes('\n')
	if err != nil {
		conn.Close()
		return nil, apperr.New(apperr.CodeIO, "read subscribe ack: %v", err)
	}
	ack, err := DecodeResponse(ackData)
	if err != nil {
		conn.Close()
		return nil, apperr.New(apperr.CodeSerialization, "decode subscribe ack: %v", err)
	}
	if !ack.OK {
		conn.Close()
		if ack.Error == nil {
			return nil, apperr.New(apperr.CodeUnknown, "daemon refused subscription without detail")
		}
		return nil, ack.Error
	}
	conn.SetDeadline(time.Time{})

	updates := make(chan progress.Update, 16)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	go func() {
		defer close(updates)
		defer close(done)
		defer conn.Close()
		for {
			data, err := reader.ReadBytes('\n')
			if err != nil {
				if ctx.Err() == nil {
					c.log.Debug().Err(err).Msg("event stream closed")
				}
				return
			}
			frame, err := DecodeEventFrame(data)
			if err != nil {
				c.log.Warn().Err(err).Msg("discarding malformed event frame")
				continue
			}
			if frame.Event != EventProgress {
				continue
			}
			select {
			case updates <- frame.Update:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates, nil
}

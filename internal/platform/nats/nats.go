package nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Connect dials the NATS server with indefinite reconnects. Identity
// events are fire-and-forget, so losing a message during an outage is
// accepted; reconnect keeps the subscription alive across broker restarts.
func Connect(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, fmt.Errorf("empty nats url")
	}

	return nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

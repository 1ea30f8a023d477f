package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Default configuration values.
const (
	DefaultAddress         = ":8080"
	DefaultReadBufferSize  = 4096
	DefaultWriteBufferSize = 4096

	DefaultReadTimeout       = 60 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultHandshakeTimeout  = 10 * time.Second
	DefaultPingInterval      = 30 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
)

// Config configures a Server. The zero value is usable; unset fields
// take the defaults above.
type Config struct {
	// Address is the listen address for Run.
	Address string

	// Title is the page title for the server-rendered snapshot.
	Title string

	// ClientScript is the path of the feed client script injected into
	// the snapshot page. No script tag is emitted when empty.
	ClientScript string

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// ReadTimeout bounds the wait for any consumer frame, including the
	// handshake Hello. A silent consumer is disconnected.
	ReadTimeout time.Duration

	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration

	// PingInterval is how often the server probes idle feeds.
	PingInterval time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds HTTP request header reads.
	ReadHeaderTimeout time.Duration

	// CheckOrigin validates the Origin header on feed upgrades.
	// Defaults to allowing all origins; production deployments should
	// restrict this.
	CheckOrigin func(r *http.Request) bool

	// Gatherer backs the /metrics endpoint. The endpoint is not
	// mounted when nil.
	Gatherer prometheus.Gatherer
}

// withDefaults fills unset fields.
func (c *Config) withDefaults() *Config {
	out := *c
	if out.Address == "" {
		out.Address = DefaultAddress
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = DefaultReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = DefaultWriteBufferSize
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = DefaultReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = DefaultWriteTimeout
	}
	if out.PingInterval == 0 {
		out.PingInterval = DefaultPingInterval
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = DefaultShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = func(*http.Request) bool { return true }
	}
	return &out
}

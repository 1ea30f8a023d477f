// Package server exposes an engine over HTTP: a server-rendered snapshot
// page, a WebSocket patch feed, health and Prometheus endpoints.
//
// A consumer loads the page, gets the current tree as HTML plus a stream
// ID, then opens the feed. The feed handshake is a Hello frame carrying
// the last sequence the consumer applied; the server replays the missed
// frames when it still has them and sends a fresh snapshot otherwise.
// After the handshake the connection carries live patch frames one way
// and acks, pings and closes the other.
package server

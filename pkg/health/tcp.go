package health

import (
	"context"
	"net"
	"net/url"
)

// TCPChecker reports whether a remote host accepts TCP connections.
type TCPChecker struct {
	name    string
	address string
	dialer  net.Dialer
}

// NewTCPChecker creates a checker for host:port.
func NewTCPChecker(name, address string) *TCPChecker {
	return &TCPChecker{name: name, address: address}
}

// NewURLChecker derives host:port from a base URL, defaulting the port from the scheme.
func NewURLChecker(name, rawURL string) (*TCPChecker, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}
	return NewTCPChecker(name, net.JoinHostPort(u.Hostname(), port)), nil
}

func (c *TCPChecker) Name() string {
	return c.name
}

// Check dials the address and closes the connection straight away.
func (c *TCPChecker) Check(ctx context.Context) Result {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return Result{Status: StatusDown, Message: err.Error()}
	}
	_ = conn.Close()
	return Result{Status: StatusUp}
}

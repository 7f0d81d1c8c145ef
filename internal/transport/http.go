// Package transport builds the outbound HTTP clients used to reach the rig.
package transport

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// NewHTTPClient returns a client with the given timeout whose transport
// negotiates HTTP/2 over TLS and falls back to HTTP/1.1.
func NewHTTPClient(timeout time.Duration) (*http.Client, error) {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, fmt.Errorf("configure http2 transport: %w", err)
	}
	return &http.Client{Timeout: timeout, Transport: tr}, nil
}

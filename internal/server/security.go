package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/senderkeys/internal/model"
)

var (
	_ model.SecurityLayer = (*TLSListener)(nil)
	_ model.SecurityLayer = (*PlainListener)(nil)
)

// TLSListener serves the backup API over TLS.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
}

// NewTLSListener creates a listener factory using the given PEM files.
func NewTLSListener(certFileName, privateKeyFileName string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Listen loads the key pair and listens on addr. gRPC clients require the
// h2 ALPN protocol, so it is always advertised.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	ln, err := tls.Listen(protocol, addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"h2"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

// PlainListener serves without transport security, for local development.
type PlainListener struct{}

func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	ln, err := net.Listen(protocol, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

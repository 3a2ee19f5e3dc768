package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeKeyPair writes a self-signed localhost certificate and returns the
// certificate and key paths.
func writeKeyPair(t *testing.T) (string, string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: "senderkeys backup test"},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certPath, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}), 0o600))
	return certPath, keyPath
}

func TestTLSListener_NegotiatesHTTP2(t *testing.T) {
	certPath, keyPath := writeKeyPair(t)

	ln, err := NewTLSListener(certPath, keyPath).Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_ = conn.(*tls.Conn).Handshake()
		_ = conn.Close()
	}()

	conn, err := tls.Dial("tcp", ln.Addr().String(), &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // self-signed test certificate
		NextProtos:         []string{"h2"},
	})
	require.NoError(t, err)
	defer conn.Close()

	state := conn.ConnectionState()
	assert.Equal(t, "h2", state.NegotiatedProtocol)
	assert.GreaterOrEqual(t, state.Version, uint16(tls.VersionTLS12))
}

func TestTLSListener_RejectsOldTLS(t *testing.T) {
	certPath, keyPath := writeKeyPair(t)

	ln, err := NewTLSListener(certPath, keyPath).Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_ = conn.(*tls.Conn).Handshake()
		_ = conn.Close()
	}()

	_, err = tls.Dial("tcp", ln.Addr().String(), &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // self-signed test certificate
		MaxVersion:         tls.VersionTLS11,
	})
	assert.Error(t, err)
}

func TestListeners_Errors(t *testing.T) {
	certPath, keyPath := writeKeyPair(t)

	tests := []struct {
		name    string
		layer   interface{ Listen(string, string) (net.Listener, error) }
		addr    string
		wantErr string
	}{
		{
			name:    "missing key pair",
			layer:   NewTLSListener("missing.pem", "missing-key.pem"),
			addr:    "127.0.0.1:0",
			wantErr: "failed to load TLS certificate",
		},
		{
			name:    "tls bad address",
			layer:   NewTLSListener(certPath, keyPath),
			addr:    "invalid-address",
			wantErr: "failed to listen on invalid-address",
		},
		{
			name:    "plain bad address",
			layer:   NewPlainListener(),
			addr:    "invalid-address",
			wantErr: "failed to listen on invalid-address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.layer.Listen("tcp", tt.addr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPlainListener_Listen(t *testing.T) {
	ln, err := NewPlainListener().Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, ok := ln.(*net.TCPListener)
	assert.True(t, ok)
}

package transmit

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"os"
	"sync"
	"testing"
	"time"
)

// loopbackPair returns a connected TCP pair on 127.0.0.1. local is the
// side under test, remote the peer.
func loopbackPair(t *testing.T) (local, remote net.Conn) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create listener: %v", err)
	}
	defer listener.Close()

	acceptDone := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			t.Logf("Accept failed: %v", err)
			return
		}
		acceptDone <- conn
	}()

	local, err = net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { local.Close() })

	select {
	case remote = <-acceptDone:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for accept")
	}
	t.Cleanup(func() { remote.Close() })
	return local, remote
}

// drain reads remote until EOF in the background and delivers everything
// read once the connection closes.
func drain(t *testing.T, remote net.Conn) <-chan []byte {
	t.Helper()
	out := make(chan []byte, 1)
	go func() {
		var buf bytes.Buffer
		tmp := make([]byte, 64*1024)
		for {
			n, err := remote.Read(tmp)
			buf.Write(tmp[:n])
			if err != nil {
				break
			}
		}
		out <- buf.Bytes()
	}()
	return out
}

// patternFile creates a temp file filled with a non-repeating byte pattern
// and returns it along with its contents.
func patternFile(t testing.TB, size int) (*os.File, []byte) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "transmit-*.bin")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i*7 + i>>8)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return f, data
}

// mockConn is a net.Conn whose Write accepts a scripted number of bytes
// per call, then unlimited, recording everything accepted. With failErr
// set, the next Write fails without consuming anything.
type mockConn struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	caps    []int
	failErr error
}

func (m *mockConn) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		err := m.failErr
		m.failErr = nil
		return 0, err
	}
	n := len(p)
	if len(m.caps) > 0 {
		if m.caps[0] < n {
			n = m.caps[0]
		}
		m.caps = m.caps[1:]
	}
	m.buf.Write(p[:n])
	return n, nil
}

func (m *mockConn) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.buf.Bytes()...)
}

func (m *mockConn) Read(p []byte) (int, error)         { select {} }
func (m *mockConn) Close() error                       { return nil }
func (m *mockConn) LocalAddr() net.Addr                { return &net.TCPAddr{} }
func (m *mockConn) RemoteAddr() net.Addr               { return &net.TCPAddr{} }
func (m *mockConn) SetDeadline(t time.Time) error      { return nil }
func (m *mockConn) SetReadDeadline(t time.Time) error  { return nil }
func (m *mockConn) SetWriteDeadline(t time.Time) error { return nil }

// timeoutError mimics a would-block condition on the generic writer path.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// modeRecorder replaces a Conn's mode-set strategy and counts the actual
// primitive invocations.
type modeRecorder struct {
	corkCalls    []bool
	noDelayCalls []bool
	err          error
}

func (r *modeRecorder) install(c *Conn) {
	c.setCork = func(on bool) error {
		if r.err != nil {
			return r.err
		}
		r.corkCalls = append(r.corkCalls, on)
		return nil
	}
	c.setNoDelay = func(on bool) error {
		if r.err != nil {
			return r.err
		}
		r.noDelayCalls = append(r.noDelayCalls, on)
		return nil
	}
}

// tlsPair performs a TLS handshake over a fresh loopback pair with a
// self-signed certificate and returns both session ends plus the raw
// client TCP connection.
func tlsPair(t *testing.T) (rawClient net.Conn, client, server *tls.Conn) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "transmit-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("Failed to create certificate: %v", err)
	}
	cert := tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}

	local, remote := loopbackPair(t)

	serverDone := make(chan *tls.Conn, 1)
	go func() {
		s := tls.Server(remote, &tls.Config{Certificates: []tls.Certificate{cert}})
		if err := s.Handshake(); err != nil {
			t.Logf("Server handshake failed: %v", err)
			return
		}
		serverDone <- s
	}()

	c := tls.Client(local, &tls.Config{InsecureSkipVerify: true})
	if err := c.Handshake(); err != nil {
		t.Fatalf("Client handshake failed: %v", err)
	}

	select {
	case server = <-serverDone:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for TLS handshake")
	}
	return local, c, server
}

package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPServer_Address(t *testing.T) {
	s := NewHTTPServer(http.NewServeMux(), ":8080")
	assert.Equal(t, ":8080", s.Address())
}

func TestHTTPServer_StartStop(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewHTTPServer(mux, ln.Addr().String())

	done := make(chan error, 1)
	go func() {
		done <- s.Start(fixedListener{ln: ln})
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://%s/ping", ln.Addr()))
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	require.NoError(t, s.Stop(context.Background()))
	assert.NoError(t, <-done, "graceful shutdown must not surface as an error")
}

type fixedListener struct {
	ln net.Listener
}

func (f fixedListener) Listen(_, _ string) (net.Listener, error) {
	return f.ln, nil
}

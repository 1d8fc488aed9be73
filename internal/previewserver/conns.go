package previewserver

import (
	"net"
	"net/http"
	"sync"
)

// connRegistry tracks live connections so shutdown can terminate them
// instead of waiting for a drain. The listener is the only writer; the set is
// never handed out.
type connRegistry struct {
	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func newConnRegistry() *connRegistry {
	return &connRegistry{conns: make(map[net.Conn]struct{})}
}

// track is wired as http.Server.ConnState: it registers connections on accept
// and unregisters them when they close or are hijacked.
func (r *connRegistry) track(c net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		r.mu.Lock()
		r.conns[c] = struct{}{}
		r.mu.Unlock()
	case http.StateClosed, http.StateHijacked:
		r.mu.Lock()
		delete(r.conns, c)
		r.mu.Unlock()
	}
}

// TerminateAll force-closes every live connection. A half-open keep-alive
// connection would otherwise block teardown indefinitely.
func (r *connRegistry) TerminateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.conns {
		_ = c.Close()
	}
}

func (r *connRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

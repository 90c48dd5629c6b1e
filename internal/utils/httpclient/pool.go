package httpclient

import (
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds a whole request, body included. Video uploads are the slowest path.
const DefaultTimeout = 2 * time.Minute

// HTTPClientPool hands out traced HTTP clients sharing the same settings
type HTTPClientPool struct {
	clients chan *http.Client
	factory func() *http.Client
	mu      sync.RWMutex
	closed  bool
}

// NewHTTPClientPool creates a pool of maxClients clients with the given timeout
func NewHTTPClientPool(maxClients int, timeout time.Duration) *HTTPClientPool {
	if maxClients < 1 {
		maxClients = 1
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	pool := &HTTPClientPool{
		clients: make(chan *http.Client, maxClients),
		factory: func() *http.Client { return newTracedClient(timeout) },
	}

	for i := 0; i < maxClients; i++ {
		pool.clients <- pool.factory()
	}

	return pool
}

func newTracedClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(transport),
	}
}

// Get retrieves a client from the pool, creating one when it is empty
func (p *HTTPClientPool) Get() *http.Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return p.factory()
	}

	select {
	case client := <-p.clients:
		return client
	default:
		return p.factory()
	}
}

// Put returns a client to the pool
func (p *HTTPClientPool) Put(client *http.Client) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed || client == nil {
		return
	}

	select {
	case p.clients <- client:
	default:
		// pool is full
	}
}

// Do runs req on a pooled client
func (p *HTTPClientPool) Do(req *http.Request) (*http.Response, error) {
	client := p.Get()
	defer p.Put(client)
	return client.Do(req)
}

// Close closes the pool. Get keeps working with fresh clients afterwards.
func (p *HTTPClientPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.clients)
}

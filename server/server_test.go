package server

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/Robino0aashu/SagaForge/network"
)

// pingConn counts pings and starts failing them after failAfter successes.
type pingConn struct {
	mutex     sync.Mutex
	pings     int
	failAfter int
}

func (c *pingConn) Ping() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.pings++
	if c.pings > c.failAfter {
		return errors.New("connection gone")
	}
	return nil
}

func (c *pingConn) count() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.pings
}

func (c *pingConn) Send(event string, payload interface{}) error { return nil }
func (c *pingConn) ReadEnvelope() (*network.Envelope, error)     { return nil, errors.New("closed") }
func (c *pingConn) Close() error                                 { return nil }
func (c *pingConn) RemoteAddr() net.Addr                         { return &net.TCPAddr{} }

func TestKeepAlive_StopsWhenPingFails(t *testing.T) {
	s := &GameServer{shutdownChan: make(chan struct{})}
	conn := &pingConn{failAfter: 2}

	done := make(chan struct{})
	go func() {
		s.keepAlive(conn, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keepAlive did not stop after the ping failed")
	}
	if got := conn.count(); got != 3 {
		t.Errorf("Expected pings up to and including the failure, got %d", got)
	}
}

func TestKeepAlive_StopsOnShutdown(t *testing.T) {
	s := &GameServer{shutdownChan: make(chan struct{})}
	conn := &pingConn{failAfter: 1 << 30}

	done := make(chan struct{})
	go func() {
		s.keepAlive(conn, 5*time.Millisecond)
		close(done)
	}()

	s.Shutdown()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keepAlive did not stop on shutdown")
	}
}

// Package test holds helpers shared by tests.
package test

import (
	"fmt"
	"net"
	"sync"
)

var (
	used = map[int]struct{}{}
	lock sync.Mutex
)

// RandomPort returns a free local port that no other caller got yet.
func RandomPort() int {
	lock.Lock()
	defer lock.Unlock()
	for {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			panic(fmt.Sprintf("listen: %v", err))
		}
		port := l.Addr().(*net.TCPAddr).Port
		_ = l.Close()
		if _, ok := used[port]; !ok {
			used[port] = struct{}{}
			return port
		}
	}
}

// RandomAddr returns a free local listen address.
func RandomAddr() string {
	return fmt.Sprintf("127.0.0.1:%d", RandomPort())
}

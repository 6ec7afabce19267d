package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another player window already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	activateMessage = "show"
	activateTimeout = time.Second
)

// InstanceGuard holds the single-instance lock of the desktop player and
// receives show requests from later launches.
type InstanceGuard struct {
	listener  net.Listener
	address   string
	serving   sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// AcquireSingleInstance binds a localhost port derived from appName. When the port
// is taken, the running player is asked to show its window and ErrAlreadyRunning
// is returned.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := instanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if activateErr := activate(address); activateErr != nil {
			return nil, fmt.Errorf("%w: %s on %s: %w", ErrAlreadyRunning, appName, address, activateErr)
		}
		return nil, fmt.Errorf("%w: %s on %s", ErrAlreadyRunning, appName, address)
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// Serve calls onActivate whenever another launch asks this player to come forward.
// onActivate runs on the guard's goroutine.
func (guard *InstanceGuard) Serve(onActivate func()) {
	if guard == nil || guard.listener == nil {
		return
	}
	guard.serving.Add(1)
	go func() {
		defer guard.serving.Done()
		for {
			conn, err := guard.listener.Accept()
			if err != nil {
				return
			}
			if guard.readRequest(conn) && onActivate != nil {
				onActivate()
			}
		}
	}()
}

// Release frees the lock and waits for Serve to return.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	guard.closeOnce.Do(func() {
		guard.closeErr = guard.listener.Close()
	})
	guard.serving.Wait()
	return guard.closeErr
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func (guard *InstanceGuard) readRequest(conn net.Conn) bool {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(activateTimeout))
	line, err := bufio.NewReader(io.LimitReader(conn, 64)).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimSpace(line) == activateMessage
}

func activate(address string) error {
	conn, err := net.DialTimeout("tcp", address, activateTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	_ = conn.SetWriteDeadline(time.Now().Add(activateTimeout))
	_, err = io.WriteString(conn, activateMessage+"\n")
	return err
}

func instanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(strings.ToLower(appName)))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}

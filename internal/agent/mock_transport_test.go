package agent

import (
	"context"
	"sync"
)

// mockTransport is a scripted test double for transport.Transport.
type mockTransport struct {
	mu sync.Mutex

	// connectErrs are consumed one per Connect call; a nil entry is a
	// success. An exhausted script always succeeds.
	connectErrs []error
	// publishErrs are consumed one per Publish call, same convention.
	publishErrs []error

	consumesBudget bool
	onPublish      func(n int)

	connected   bool
	connects    int
	publishes   [][]byte
	disconnects int
}

func (m *mockTransport) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	m.connects++
	var err error
	if len(m.connectErrs) > 0 {
		err = m.connectErrs[0]
		m.connectErrs = m.connectErrs[1:]
	}
	if err != nil {
		return err
	}
	m.connected = true
	return nil
}

func (m *mockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *mockTransport) Publish(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	if err := ctx.Err(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.publishes = append(m.publishes, payload)
	n := len(m.publishes)
	var err error
	if len(m.publishErrs) > 0 {
		err = m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
	}
	hook := m.onPublish
	m.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return err
}

func (m *mockTransport) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnects++
	m.connected = false
}

func (m *mockTransport) PublishConsumesRetryBudget() bool {
	return m.consumesBudget
}

func (m *mockTransport) PublishCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.publishes)
}

func (m *mockTransport) ConnectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connects
}

func (m *mockTransport) DisconnectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disconnects
}

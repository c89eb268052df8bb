package sim

import (
	"errors"
	"fmt"
	"sync"

	"lockstat/core"
)

// ErrNoDevice is the NACK returned for an address with no peer attached
var ErrNoDevice = errors.New("sim: no device at address")

// Peer is a bus slave. Receive gets the bytes of one write transaction.
type Peer interface {
	Receive(data []byte)
}

// Transaction is one logged bus write
type Transaction struct {
	Addr core.I2CAddress
	Data []byte
	Err  error
}

func (t Transaction) String() string {
	if t.Err != nil {
		return fmt.Sprintf("0x%02x % x (%v)", uint8(t.Addr), t.Data, t.Err)
	}
	return fmt.Sprintf("0x%02x % x", uint8(t.Addr), t.Data)
}

// Bus is an I2CDriver that routes writes to attached peers. Every
// transaction is logged, failed ones included.
type Bus struct {
	mu    sync.Mutex
	peers map[core.I2CAddress]Peer
	fail  map[core.I2CAddress]error
	log   []Transaction
	limit int
}

// DefaultLogLimit bounds the transaction log
const DefaultLogLimit = 256

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		peers: make(map[core.I2CAddress]Peer),
		fail:  make(map[core.I2CAddress]error),
		limit: DefaultLogLimit,
	}
}

// Attach places p at addr
func (b *Bus) Attach(addr core.I2CAddress, p Peer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.peers[addr] = p
}

// Fail makes writes to addr return err. A nil err clears the fault.
func (b *Bus) Fail(addr core.I2CAddress, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.fail, addr)
		return
	}
	b.fail[addr] = err
}

// Write performs one transaction
func (b *Bus) Write(addr core.I2CAddress, data []byte) error {
	b.mu.Lock()
	err := b.fail[addr]
	peer, ok := b.peers[addr]
	if err == nil && !ok {
		err = ErrNoDevice
	}
	b.record(Transaction{Addr: addr, Data: append([]byte(nil), data...), Err: err})
	b.mu.Unlock()

	if err != nil {
		return err
	}
	peer.Receive(data)
	return nil
}

func (b *Bus) record(t Transaction) {
	b.log = append(b.log, t)
	if len(b.log) > b.limit {
		b.log = b.log[len(b.log)-b.limit:]
	}
}

// Log returns a copy of the transaction log, oldest first
func (b *Bus) Log() []Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Transaction(nil), b.log...)
}

// ClearLog empties the transaction log
func (b *Bus) ClearLog() {
	b.mu.Lock()
	b.log = nil
	b.mu.Unlock()
}

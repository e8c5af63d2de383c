package network

import (
	"sync"

	"github.com/SuccinctPaul/collaborative-circom/mpc"
)

// chanBacklog bounds the number of in-flight messages per ordered pair.
const chanBacklog = 64

// ChanNetwork is an in-process Network backed by channels, used by tests
// and local demos to run all parties of a protocol inside one process.
type ChanNetwork struct {
	id        int
	chans     [][]chan []byte // chans[from][to]
	closed    chan struct{}
	closeOnce *sync.Once
}

// NewChanNetworks returns n connected in-process networks, one per party.
func NewChanNetworks(n int) []*ChanNetwork {
	chans := make([][]chan []byte, n)
	for from := range chans {
		chans[from] = make([]chan []byte, n)
		for to := range chans[from] {
			if from != to {
				chans[from][to] = make(chan []byte, chanBacklog)
			}
		}
	}
	closed := make(chan struct{})
	closeOnce := new(sync.Once)
	nets := make([]*ChanNetwork, n)
	for i := range nets {
		nets[i] = &ChanNetwork{id: i, chans: chans, closed: closed, closeOnce: closeOnce}
	}
	return nets
}

// PartyID implements Network.
func (c *ChanNetwork) PartyID() int { return c.id }

// NumParties implements Network.
func (c *ChanNetwork) NumParties() int { return len(c.chans) }

// Send implements Network.
func (c *ChanNetwork) Send(to int, p []byte) error {
	if err := checkPeer(c, "destination", to); err != nil {
		return err
	}
	msg := make([]byte, len(p))
	copy(msg, p)
	select {
	case c.chans[c.id][to] <- msg:
		return nil
	case <-c.closed:
		return mpc.Errorf(mpc.Network, "network closed while sending to party %d", to)
	}
}

// Recv implements Network.
func (c *ChanNetwork) Recv(from int) ([]byte, error) {
	if err := checkPeer(c, "source", from); err != nil {
		return nil, err
	}
	select {
	case msg := <-c.chans[from][c.id]:
		return msg, nil
	case <-c.closed:
		return nil, mpc.Errorf(mpc.Network, "network closed while receiving from party %d", from)
	}
}

// Broadcast implements Network.
func (c *ChanNetwork) Broadcast(p []byte) error {
	for to := range c.chans {
		if to == c.id {
			continue
		}
		if err := c.Send(to, p); err != nil {
			return err
		}
	}
	return nil
}

// Close implements Network. Closing any one of the connected networks
// aborts the whole in-process session.
func (c *ChanNetwork) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

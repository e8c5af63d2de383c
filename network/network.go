// Package network provides the point-to-point and broadcast messaging
// layer consumed by the interactive sharing protocols. Delivery is
// reliable and ordered per sender-receiver pair; authentication and
// encryption are the transport's responsibility, not the sharing core's.
package network

import (
	"github.com/SuccinctPaul/collaborative-circom/mpc"
)

// Network is the messaging handle of one party. Send and Recv block;
// Recv returns messages from the given peer in sending order. A failure
// of any call aborts the in-flight protocol operation, there is no
// internal retry.
type Network interface {
	// PartyID returns the local party's index in [0, NumParties).
	PartyID() int
	// NumParties returns the total number of connected parties.
	NumParties() int
	// Send delivers p to the party with the given index.
	Send(to int, p []byte) error
	// Recv blocks until the next message from the party with the given
	// index is available.
	Recv(from int) ([]byte, error)
	// Broadcast delivers p to every other party.
	Broadcast(p []byte) error
	// Close releases the underlying connections.
	Close() error
}

func checkPeer(n Network, peer string, id int) error {
	if id < 0 || id >= n.NumParties() {
		return mpc.Errorf(mpc.Network, "invalid %s party %d (have %d parties)", peer, id, n.NumParties())
	}
	if id == n.PartyID() {
		return mpc.Errorf(mpc.Network, "%s party %d is the local party", peer, id)
	}
	return nil
}

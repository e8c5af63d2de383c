package network

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/SuccinctPaul/collaborative-circom/mpc"
)

// maxFrameSize bounds the size of a single message frame; a peer
// announcing a larger frame is treated as malformed.
const maxFrameSize = 1 << 30

// Config describes the full mesh of a TCP session. Parties[i] is the
// address party i listens on; MyID indexes the local party.
type Config struct {
	MyID    int           `json:"my_id"`
	Parties []string      `json:"parties"`
	Timeout time.Duration `json:"timeout,omitempty"`
}

// LoadConfig reads a Config from a JSON file.
func LoadConfig(path string) (Config, error) {
	var conf Config
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, mpc.Wrap(mpc.Network, err, "while reading network config")
	}
	if err := json.Unmarshal(data, &conf); err != nil {
		return conf, mpc.Wrap(mpc.Parse, err, "while parsing network config")
	}
	return conf, nil
}

func (conf Config) check() error {
	if len(conf.Parties) < 2 {
		return mpc.Errorf(mpc.Config, "network config needs at least 2 parties, got %d", len(conf.Parties))
	}
	if conf.MyID < 0 || conf.MyID >= len(conf.Parties) {
		return mpc.Errorf(mpc.Config, "my_id %d out of range for %d parties", conf.MyID, len(conf.Parties))
	}
	return nil
}

// TCPNetwork is a full-mesh TCP implementation of Network. Messages are
// length-prefixed frames; per-peer ordering follows from TCP's.
type TCPNetwork struct {
	conf  Config
	peers []*tcpPeer // peers[conf.MyID] is nil
}

type tcpPeer struct {
	conn net.Conn

	sendMu sync.Mutex

	recvMu  sync.Mutex
	recvErr error
}

// Dial connects the local party to every other party of the mesh and
// blocks until the full mesh is established. The lower-indexed party of
// every pair accepts, the higher-indexed one dials.
func Dial(conf Config) (*TCPNetwork, error) {
	if err := conf.check(); err != nil {
		return nil, err
	}

	n := len(conf.Parties)
	me := conf.MyID

	tn := &TCPNetwork{conf: conf, peers: make([]*tcpPeer, n)}

	var listener net.Listener
	if me < n-1 {
		var err error
		if listener, err = net.Listen("tcp", conf.Parties[me]); err != nil {
			return nil, mpc.Wrap(mpc.Network, err, fmt.Sprintf("while listening on %s", conf.Parties[me]))
		}
		defer listener.Close()
	}

	var g errgroup.Group

	// accept one connection from every higher-indexed party
	g.Go(func() error {
		for range n - 1 - me {
			conn, err := listener.Accept()
			if err != nil {
				return mpc.Wrap(mpc.Network, err, "while accepting peer connection")
			}
			var id uint64
			if err := binary.Read(conn, binary.BigEndian, &id); err != nil {
				return mpc.Wrap(mpc.Network, err, "while reading peer handshake")
			}
			if id <= uint64(me) || id >= uint64(n) || tn.peers[id] != nil {
				return mpc.Errorf(mpc.Network, "unexpected handshake from party %d", id)
			}
			tn.peers[id] = newTCPPeer(conn)
		}
		return nil
	})

	// dial every lower-indexed party
	for id := 0; id < me; id++ {
		g.Go(func() error {
			conn, err := dialRetry(conf.Parties[id], conf.Timeout)
			if err != nil {
				return mpc.Wrap(mpc.Network, err, fmt.Sprintf("while connecting to party %d at %s", id, conf.Parties[id]))
			}
			if err := binary.Write(conn, binary.BigEndian, uint64(me)); err != nil {
				return mpc.Wrap(mpc.Network, err, "while sending handshake")
			}
			tn.peers[id] = newTCPPeer(conn)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		tn.Close()
		return nil, err
	}

	log.Debug().Int("party", me).Int("peers", n-1).Msg("tcp mesh established")
	return tn, nil
}

// dialRetry redials for up to the configured timeout (or a default of
// 10s), since peers of a session start in arbitrary order.
func dialRetry(addr string, timeout time.Duration) (net.Conn, error) {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.DialTimeout("tcp", addr, timeout)
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func newTCPPeer(conn net.Conn) *tcpPeer {
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		// protocol rounds are latency-bound
		_ = tcpConn.SetNoDelay(true)
	}
	return &tcpPeer{conn: conn}
}

// PartyID implements Network.
func (t *TCPNetwork) PartyID() int { return t.conf.MyID }

// NumParties implements Network.
func (t *TCPNetwork) NumParties() int { return len(t.conf.Parties) }

// Send implements Network.
func (t *TCPNetwork) Send(to int, p []byte) error {
	if err := checkPeer(t, "destination", to); err != nil {
		return err
	}
	peer := t.peers[to]
	peer.sendMu.Lock()
	defer peer.sendMu.Unlock()

	if t.conf.Timeout != 0 {
		_ = peer.conn.SetWriteDeadline(time.Now().Add(t.conf.Timeout))
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(p)))
	if _, err := peer.conn.Write(lenBuf[:]); err != nil {
		return mpc.Wrap(mpc.Network, err, fmt.Sprintf("while sending to party %d", to))
	}
	if _, err := peer.conn.Write(p); err != nil {
		return mpc.Wrap(mpc.Network, err, fmt.Sprintf("while sending to party %d", to))
	}
	return nil
}

// Recv implements Network.
func (t *TCPNetwork) Recv(from int) ([]byte, error) {
	if err := checkPeer(t, "source", from); err != nil {
		return nil, err
	}
	peer := t.peers[from]
	peer.recvMu.Lock()
	defer peer.recvMu.Unlock()

	if peer.recvErr != nil {
		return nil, peer.recvErr
	}

	if t.conf.Timeout != 0 {
		_ = peer.conn.SetReadDeadline(time.Now().Add(t.conf.Timeout))
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(peer.conn, lenBuf[:]); err != nil {
		peer.recvErr = mpc.Wrap(mpc.Network, err, fmt.Sprintf("while receiving from party %d", from))
		return nil, peer.recvErr
	}
	size := binary.BigEndian.Uint32(lenBuf[:])
	if size > maxFrameSize {
		peer.recvErr = mpc.Errorf(mpc.Protocol, "malformed frame from party %d: size %d", from, size)
		return nil, peer.recvErr
	}
	msg := make([]byte, size)
	if _, err := io.ReadFull(peer.conn, msg); err != nil {
		peer.recvErr = mpc.Wrap(mpc.Network, err, fmt.Sprintf("while receiving from party %d", from))
		return nil, peer.recvErr
	}
	return msg, nil
}

// Broadcast implements Network.
func (t *TCPNetwork) Broadcast(p []byte) error {
	for to := range t.peers {
		if to == t.conf.MyID {
			continue
		}
		if err := t.Send(to, p); err != nil {
			return err
		}
	}
	return nil
}

// Close implements Network.
func (t *TCPNetwork) Close() error {
	var firstErr error
	for _, peer := range t.peers {
		if peer == nil {
			continue
		}
		if err := peer.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

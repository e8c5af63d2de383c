package network

import (
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/SuccinctPaul/collaborative-circom/mpc"
)

// exerciseMesh sends a distinct message over every ordered pair and a
// broadcast from party 0, validating delivery and per-pair ordering.
func exerciseMesh(t *testing.T, nets []Network) {
	t.Helper()
	n := len(nets)

	var g errgroup.Group
	for i := range nets {
		g.Go(func() error {
			for j := range nets {
				if j == i {
					continue
				}
				if err := nets[i].Send(j, fmt.Appendf(nil, "%d->%d", i, j)); err != nil {
					return err
				}
			}
			for j := range nets {
				if j == i {
					continue
				}
				msg, err := nets[i].Recv(j)
				if err != nil {
					return err
				}
				if want := fmt.Sprintf("%d->%d", j, i); string(msg) != want {
					return fmt.Errorf("party %d received %q from %d, want %q", i, msg, j, want)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	g = errgroup.Group{}
	g.Go(func() error { return nets[0].Broadcast([]byte("round")) })
	for i := 1; i < n; i++ {
		g.Go(func() error {
			msg, err := nets[i].Recv(0)
			if err != nil {
				return err
			}
			if string(msg) != "round" {
				return fmt.Errorf("party %d received %q, want %q", i, msg, "round")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestChanNetwork(t *testing.T) {
	chans := NewChanNetworks(4)
	nets := make([]Network, len(chans))
	for i := range chans {
		nets[i] = chans[i]
	}
	exerciseMesh(t, nets)
}

func TestChanNetworkOrdering(t *testing.T) {
	nets := NewChanNetworks(2)
	for k := range 10 {
		require.NoError(t, nets[0].Send(1, []byte{byte(k)}))
	}
	for k := range 10 {
		msg, err := nets[1].Recv(0)
		require.NoError(t, err)
		require.Equal(t, []byte{byte(k)}, msg)
	}
}

func TestChanNetworkClose(t *testing.T) {
	nets := NewChanNetworks(3)
	require.NoError(t, nets[1].Close())

	// any further operation on any party fails
	err := nets[0].Send(2, []byte("x"))
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Network))

	_, err = nets[2].Recv(0)
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Network))

	// closing again is a no-op
	require.NoError(t, nets[0].Close())
}

func TestChanNetworkRejectsBadPeer(t *testing.T) {
	nets := NewChanNetworks(3)
	for _, to := range []int{-1, 0, 3} {
		err := nets[0].Send(to, []byte("x"))
		require.Error(t, err)
		require.True(t, mpc.IsKind(err, mpc.Network))
	}
	_, err := nets[1].Recv(1)
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Network))
}

// freeLoopbackAddrs reserves n distinct ephemeral loopback addresses
// and releases them for the mesh to bind.
func freeLoopbackAddrs(t *testing.T, n int) []string {
	t.Helper()
	listeners := make([]net.Listener, n)
	addrs := make([]string, n)
	for i := range addrs {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		listeners[i] = l
		addrs[i] = l.Addr().String()
	}
	for _, l := range listeners {
		require.NoError(t, l.Close())
	}
	return addrs
}

func dialLoopbackMesh(t *testing.T, n int) []Network {
	t.Helper()

	parties := freeLoopbackAddrs(t, n)

	nets := make([]Network, n)
	var g errgroup.Group
	for i := range parties {
		g.Go(func() error {
			tn, err := Dial(Config{MyID: i, Parties: parties, Timeout: 10 * time.Second})
			if err != nil {
				return err
			}
			nets[i] = tn
			return nil
		})
	}
	require.NoError(t, g.Wait())
	t.Cleanup(func() {
		for _, tn := range nets {
			_ = tn.Close()
		}
	})
	return nets
}

func TestTCPNetwork(t *testing.T) {
	nets := dialLoopbackMesh(t, 3)

	require.Equal(t, 3, nets[0].NumParties())
	require.Equal(t, 1, nets[1].PartyID())

	exerciseMesh(t, nets)

	// a large frame survives the length-prefixed framing
	big := make([]byte, 1<<20)
	for i := range big {
		big[i] = byte(i)
	}
	var g errgroup.Group
	g.Go(func() error { return nets[0].Send(1, big) })
	g.Go(func() error {
		msg, err := nets[1].Recv(0)
		if err != nil {
			return err
		}
		require.Equal(t, big, msg)
		return nil
	})
	require.NoError(t, g.Wait())
}

func TestTCPNetworkPeerDisconnect(t *testing.T) {
	nets := dialLoopbackMesh(t, 2)

	require.NoError(t, nets[0].Close())
	_, err := nets[1].Recv(0)
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Network))
}

func TestConfigCheck(t *testing.T) {
	_, err := Dial(Config{MyID: 0, Parties: []string{"127.0.0.1:1"}})
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Config))

	_, err = Dial(Config{MyID: 5, Parties: []string{"127.0.0.1:1", "127.0.0.1:2"}})
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Config))
}

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

func TestLoadConfig(t *testing.T) {
	path := t.TempDir() + "/net.json"
	require.NoError(t, writeTestFile(path, `{"my_id": 1, "parties": ["127.0.0.1:9001", "127.0.0.1:9002", "127.0.0.1:9003"]}`))

	conf, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 1, conf.MyID)
	require.Len(t, conf.Parties, 3)

	_, err = LoadConfig(t.TempDir() + "/missing.json")
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Network))

	bad := t.TempDir() + "/bad.json"
	require.NoError(t, writeTestFile(bad, `{`))
	_, err = LoadConfig(bad)
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Parse))
}

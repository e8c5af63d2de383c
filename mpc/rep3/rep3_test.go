package rep3

import (
	"bytes"
	"fmt"
	"testing"

	fr_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
	"github.com/SuccinctPaul/collaborative-circom/utils/prng"
)

func testString(opname string, seeded, additive bool) string {
	return fmt.Sprintf("%s/seeded=%t/additive=%t", opname, seeded, additive)
}

func randomSecrets(n int) []fr_bn254.Element {
	return curve.SampleVector[fr_bn254.Element](prng.NewSource(prng.NewSeed()), n)
}

func TestShareReconstruct(t *testing.T) {
	secrets := randomSecrets(33)

	for _, seeded := range []bool{false, true} {
		t.Run(testString("Reconstruct", seeded, false), func(t *testing.T) {
			src := prng.NewSource(prng.NewSeed())
			shares := Share[fr_bn254.Element](secrets, src, seeded, false)

			// every pair of distinct parties reconstructs
			for i := range shares {
				for j := range shares {
					if i == j {
						continue
					}
					got, err := Reconstruct[fr_bn254.Element](shares[i], shares[j])
					require.NoError(t, err)
					require.True(t, curve.EqualVector[fr_bn254.Element](secrets, got))
				}
			}
		})
	}
}

func TestShareComponentsSumToSecret(t *testing.T) {
	var secret fr_bn254.Element
	secret.SetUint64(42)

	for _, seeded := range []bool{false, true} {
		for _, additive := range []bool{false, true} {
			t.Run(testString("ComponentSum", seeded, additive), func(t *testing.T) {
				src := prng.NewSource(prng.NewSeed())
				shares := Share[fr_bn254.Element]([]fr_bn254.Element{secret}, src, seeded, additive)

				var sum fr_bn254.Element
				for i := range shares {
					require.Equal(t, PartyID(i), shares[i].ID)
					require.Equal(t, 1, shares[i].N)
					require.Equal(t, additive, shares[i].Additive())
					own := AdditiveShare[fr_bn254.Element](shares[i])
					sum.Add(&sum, &own[0])
				}
				require.True(t, secret.Equal(&sum))
			})
		}
	}
}

func TestSeededSharesReplicate(t *testing.T) {
	secrets := randomSecrets(16)
	src := prng.NewSource(prng.NewSeed())
	shares := Share[fr_bn254.Element](secrets, src, true, false)

	// party 0 holds (x0, x1) as seeds, party 2 holds the explicit
	// correction x2 and the seed of x0
	require.True(t, shares[0].A.IsSeeded())
	require.True(t, shares[0].B.IsSeeded())
	require.True(t, shares[1].A.IsSeeded())
	require.False(t, shares[1].B.IsSeeded())
	require.False(t, shares[2].A.IsSeeded())
	require.True(t, shares[2].B.IsSeeded())

	// the replicated neighbour component expands to the same values
	for i := range shares {
		Expand[fr_bn254.Element](shares[i])
	}
	for i := range shares {
		next := shares[(i+1)%mpc.Rep3NumParties]
		require.True(t, curve.EqualVector[fr_bn254.Element](shares[i].B.Elements, next.A.Elements))
	}
}

func TestReconstructRejects(t *testing.T) {
	secrets := randomSecrets(8)
	src := prng.NewSource(prng.NewSeed())
	shares := Share[fr_bn254.Element](secrets, src, false, false)

	t.Run("SameParty", func(t *testing.T) {
		_, err := Reconstruct[fr_bn254.Element](shares[0], shares[0])
		require.Error(t, err)
		require.True(t, mpc.IsKind(err, mpc.Protocol))
	})

	t.Run("AdditiveShares", func(t *testing.T) {
		add := Share[fr_bn254.Element](secrets, prng.NewSource(prng.NewSeed()), false, true)
		_, err := Reconstruct[fr_bn254.Element](add[0], add[1])
		require.Error(t, err)
		require.True(t, mpc.IsKind(err, mpc.Protocol))
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		short := Share[fr_bn254.Element](secrets[:4], prng.NewSource(prng.NewSeed()), false, false)
		_, err := Reconstruct[fr_bn254.Element](shares[0], short[1])
		require.Error(t, err)
		require.True(t, mpc.IsKind(err, mpc.Protocol))
	})
}

func TestShareVectorSerialization(t *testing.T) {
	secrets := randomSecrets(21)

	for _, seeded := range []bool{false, true} {
		for _, additive := range []bool{false, true} {
			t.Run(testString("Serialization", seeded, additive), func(t *testing.T) {
				src := prng.NewSource(prng.NewSeed())
				shares := Share[fr_bn254.Element](secrets, src, seeded, additive)

				for i := range shares {
					buf := new(bytes.Buffer)
					nw, err := WriteShareVector[fr_bn254.Element](buf, shares[i])
					require.NoError(t, err)
					require.Equal(t, int64(buf.Len()), nw)

					got, nr, err := ReadShareVector[fr_bn254.Element](buf)
					require.NoError(t, err)
					require.Equal(t, nw, nr)
					require.True(t, Equal[fr_bn254.Element](shares[i], got))
				}
			})
		}
	}
}

func TestReadShareVectorMalformed(t *testing.T) {
	secrets := randomSecrets(4)
	shares := Share[fr_bn254.Element](secrets, prng.NewSource(prng.NewSeed()), false, false)

	buf := new(bytes.Buffer)
	_, err := WriteShareVector[fr_bn254.Element](buf, shares[0])
	require.NoError(t, err)

	t.Run("Truncated", func(t *testing.T) {
		raw := buf.Bytes()
		_, _, err := ReadShareVector[fr_bn254.Element](bytes.NewReader(raw[:len(raw)/2]))
		require.Error(t, err)
		require.True(t, mpc.IsKind(err, mpc.Parse))
	})

	t.Run("BadPartyID", func(t *testing.T) {
		raw := append([]byte(nil), buf.Bytes()...)
		raw[0] = 7
		_, _, err := ReadShareVector[fr_bn254.Element](bytes.NewReader(raw))
		require.Error(t, err)
		require.True(t, mpc.IsKind(err, mpc.Parse))
	})
}

func TestPartyIDNext(t *testing.T) {
	require.Equal(t, PartyID(1), PartyID(0).Next())
	require.Equal(t, PartyID(2), PartyID(1).Next())
	require.Equal(t, PartyID(0), PartyID(2).Next())
}

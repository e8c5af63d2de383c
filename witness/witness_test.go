package witness

import (
	"bytes"
	"testing"

	fr_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
	"github.com/SuccinctPaul/collaborative-circom/mpc/rep3"
	"github.com/SuccinctPaul/collaborative-circom/mpc/shamir"
	"github.com/SuccinctPaul/collaborative-circom/utils/prng"
)

func randomVector(n int) []fr_bn254.Element {
	return curve.SampleVector[fr_bn254.Element](prng.NewSource(prng.NewSeed()), n)
}

func TestSplitWitnessRep3(t *testing.T) {
	wit := randomVector(20)
	const numInputs = 4

	shares, err := SplitWitnessRep3[fr_bn254.Element](wit, numInputs, prng.NewSource(prng.NewSeed()), false, false)
	require.NoError(t, err)

	for _, sw := range shares {
		// the public prefix is in the clear and identical for every party
		require.True(t, curve.EqualVector[fr_bn254.Element](wit[:numInputs], sw.PublicInputs))
	}

	// the shared remainder reconstructs positionally
	got, err := rep3.Reconstruct[fr_bn254.Element](shares[0].Witness, shares[1].Witness)
	require.NoError(t, err)
	require.True(t, curve.EqualVector[fr_bn254.Element](wit[numInputs:], got))
}

func TestSplitWitnessShamir(t *testing.T) {
	wit := randomVector(20)
	const numInputs, threshold, n = 3, 2, 5

	shares, err := SplitWitnessShamir[fr_bn254.Element](wit, numInputs, threshold, n, prng.NewSource(prng.NewSeed()))
	require.NoError(t, err)
	require.Len(t, shares, n)

	got, err := shamir.Reconstruct[fr_bn254.Element](threshold, shares[0].Witness, shares[2].Witness, shares[4].Witness)
	require.NoError(t, err)
	require.True(t, curve.EqualVector[fr_bn254.Element](wit[numInputs:], got))
}

func TestSplitWitnessRejectsBadInputCount(t *testing.T) {
	wit := randomVector(5)
	for _, numInputs := range []int{0, -1, 6} {
		_, err := SplitWitnessRep3[fr_bn254.Element](wit, numInputs, prng.NewSource(prng.NewSeed()), false, false)
		require.Error(t, err)
		require.True(t, mpc.IsKind(err, mpc.Config))
	}
}

func TestSplitInput(t *testing.T) {
	inputs := map[string][]fr_bn254.Element{
		"a":      randomVector(3),
		"b":      randomVector(1),
		"salt":   randomVector(2),
		"public": randomVector(2),
	}

	shares, err := SplitInput[fr_bn254.Element](inputs, []string{"public"}, prng.NewSource(prng.NewSeed()), false, false)
	require.NoError(t, err)

	for _, si := range shares {
		require.ElementsMatch(t, []string{"public"}, keysOf(si.PublicInputs))
		require.ElementsMatch(t, []string{"a", "b", "salt"}, keysOf(si.SharedInputs))
		require.True(t, curve.EqualVector[fr_bn254.Element](inputs["public"], si.PublicInputs["public"]))
	}

	for name, want := range inputs {
		if name == "public" {
			continue
		}
		got, err := rep3.Reconstruct[fr_bn254.Element](shares[0].SharedInputs[name], shares[2].SharedInputs[name])
		require.NoError(t, err)
		require.True(t, curve.EqualVector[fr_bn254.Element](want, got))
	}
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func splitSingleOwner(t *testing.T, inputs map[string][]fr_bn254.Element, public []string) *SharedInput[fr_bn254.Element, *rep3.ShareVector[fr_bn254.Element]] {
	t.Helper()
	shares, err := SplitInput[fr_bn254.Element](inputs, public, prng.NewSource(prng.NewSeed()), false, false)
	require.NoError(t, err)
	return shares[0]
}

func TestSplitInputRejectsUnknownPublicName(t *testing.T) {
	inputs := map[string][]fr_bn254.Element{"a": randomVector(1)}

	_, err := SplitInput[fr_bn254.Element](inputs, []string{"pubilc"}, prng.NewSource(prng.NewSeed()), false, false)
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Config))
	require.ErrorContains(t, err, `"pubilc"`)
}

func TestMergeCommutes(t *testing.T) {
	pub := randomVector(2)
	a := splitSingleOwner(t, map[string][]fr_bn254.Element{"a": randomVector(2), "p": pub}, []string{"p"})
	b := splitSingleOwner(t, map[string][]fr_bn254.Element{"b": randomVector(3), "p": pub}, []string{"p"})

	ab, err := Merge[fr_bn254.Element](a, b)
	require.NoError(t, err)
	ba, err := Merge[fr_bn254.Element](b, a)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(ab, ba))
}

func TestMergeAllOrderIndependent(t *testing.T) {
	a := splitSingleOwner(t, map[string][]fr_bn254.Element{"a": randomVector(1)}, nil)
	b := splitSingleOwner(t, map[string][]fr_bn254.Element{"b": randomVector(2)}, nil)
	c := splitSingleOwner(t, map[string][]fr_bn254.Element{"c": randomVector(3)}, nil)

	type in = *SharedInput[fr_bn254.Element, *rep3.ShareVector[fr_bn254.Element]]
	abc, err := MergeAll[fr_bn254.Element]([]in{a, b, c})
	require.NoError(t, err)
	cba, err := MergeAll[fr_bn254.Element]([]in{c, b, a})
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(abc, cba))
	require.ElementsMatch(t, []string{"a", "b", "c"}, keysOf(abc.SharedInputs))
}

func TestMergeRejectsDuplicateSharedKey(t *testing.T) {
	a := splitSingleOwner(t, map[string][]fr_bn254.Element{"x": randomVector(1)}, nil)
	b := splitSingleOwner(t, map[string][]fr_bn254.Element{"x": randomVector(1)}, nil)

	_, err := Merge[fr_bn254.Element](a, b)
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Merge))
	require.ErrorContains(t, err, `duplicate shared input "x"`)
}

func TestMergeRejectsConflictingPublicValue(t *testing.T) {
	a := splitSingleOwner(t, map[string][]fr_bn254.Element{"p": randomVector(2)}, []string{"p"})
	b := splitSingleOwner(t, map[string][]fr_bn254.Element{"p": randomVector(2)}, []string{"p"})

	_, err := Merge[fr_bn254.Element](a, b)
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Merge))
	require.ErrorContains(t, err, `conflicting public input "p"`)
}

func TestMergeRejectsPublicSecretOverlap(t *testing.T) {
	a := splitSingleOwner(t, map[string][]fr_bn254.Element{"x": randomVector(1)}, []string{"x"})
	b := splitSingleOwner(t, map[string][]fr_bn254.Element{"x": randomVector(1)}, nil)

	_, err := Merge[fr_bn254.Element](a, b)
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Merge))
}

func TestMergeAllNeedsTwoInputs(t *testing.T) {
	a := splitSingleOwner(t, map[string][]fr_bn254.Element{"a": randomVector(1)}, nil)

	type in = *SharedInput[fr_bn254.Element, *rep3.ShareVector[fr_bn254.Element]]
	for _, inputs := range [][]in{nil, {a}} {
		_, err := MergeAll[fr_bn254.Element](inputs)
		require.Error(t, err)
		require.True(t, mpc.IsKind(err, mpc.Merge))
	}
}

func TestSharedWitnessSerialization(t *testing.T) {
	wit := randomVector(10)

	for _, seeded := range []bool{false, true} {
		shares, err := SplitWitnessRep3[fr_bn254.Element](wit, 2, prng.NewSource(prng.NewSeed()), seeded, false)
		require.NoError(t, err)

		for _, sw := range shares {
			buf := new(bytes.Buffer)
			nw, err := WriteSharedWitness[fr_bn254.Element](buf, sw, rep3.WriteShareVector[fr_bn254.Element])
			require.NoError(t, err)
			require.Equal(t, int64(buf.Len()), nw)

			got, nr, err := ReadSharedWitness[fr_bn254.Element](buf, rep3.ReadShareVector[fr_bn254.Element])
			require.NoError(t, err)
			require.Equal(t, nw, nr)
			require.Empty(t, cmp.Diff(sw, got))
		}
	}
}

func TestSharedInputSerialization(t *testing.T) {
	inputs := map[string][]fr_bn254.Element{
		"a": randomVector(2),
		"b": randomVector(4),
		"p": randomVector(1),
	}
	shares, err := SplitInput[fr_bn254.Element](inputs, []string{"p"}, prng.NewSource(prng.NewSeed()), true, false)
	require.NoError(t, err)

	for _, si := range shares {
		buf := new(bytes.Buffer)
		nw, err := WriteSharedInput[fr_bn254.Element](buf, si, rep3.WriteShareVector[fr_bn254.Element])
		require.NoError(t, err)
		require.Equal(t, int64(buf.Len()), nw)

		// deterministic encoding: re-encoding yields identical bytes
		second := new(bytes.Buffer)
		_, err = WriteSharedInput[fr_bn254.Element](second, si, rep3.WriteShareVector[fr_bn254.Element])
		require.NoError(t, err)
		require.Equal(t, buf.Bytes(), second.Bytes())

		got, nr, err := ReadSharedInput[fr_bn254.Element](bytes.NewReader(buf.Bytes()), rep3.ReadShareVector[fr_bn254.Element])
		require.NoError(t, err)
		require.Equal(t, nw, nr)
		require.Empty(t, cmp.Diff(si, got))
	}
}

func TestReadSharedInputTruncated(t *testing.T) {
	inputs := map[string][]fr_bn254.Element{"a": randomVector(2)}
	shares, err := SplitInput[fr_bn254.Element](inputs, nil, prng.NewSource(prng.NewSeed()), false, false)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	_, err = WriteSharedInput[fr_bn254.Element](buf, shares[0], rep3.WriteShareVector[fr_bn254.Element])
	require.NoError(t, err)

	raw := buf.Bytes()
	_, _, err = ReadSharedInput[fr_bn254.Element](bytes.NewReader(raw[:len(raw)-3]), rep3.ReadShareVector[fr_bn254.Element])
	require.Error(t, err)
	require.True(t, mpc.IsKind(err, mpc.Parse))
}

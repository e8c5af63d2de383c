package witness

import (
	"encoding/binary"
	"io"
	"math/big"
	"slices"

	"github.com/SuccinctPaul/collaborative-circom/mpc"
)

// circom .r1cs binary layout mirrors .wtns: magic, version, section
// count, then typed sections. Only the header section is needed here;
// everything else is skipped.
const (
	r1csMagic   = "r1cs"
	r1csVersion = 1

	r1csSectionHeader = 1
)

// R1CSHeader is the header section of a circom .r1cs file.
type R1CSHeader struct {
	Prime        *big.Int
	NWires       uint32
	NPubOutputs  uint32
	NPubInputs   uint32
	NPrvInputs   uint32
	NLabels      uint64
	NConstraints uint32
}

// NumInputs returns the number of leading witness elements that are
// public: the constant 1 plus the public outputs and public inputs.
func (h *R1CSHeader) NumInputs() int {
	return 1 + int(h.NPubOutputs) + int(h.NPubInputs)
}

// ReadR1CSHeader reads the header section of a circom constraint file,
// skipping over every other section.
func ReadR1CSHeader(r io.Reader) (*R1CSHeader, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, mpc.Wrap(mpc.Parse, err, "while reading constraint file magic")
	}
	if string(magic[:]) != r1csMagic {
		return nil, mpc.Errorf(mpc.Parse, "invalid constraint file magic %q", magic[:])
	}

	var version, nSections uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, mpc.Wrap(mpc.Parse, err, "while reading constraint file version")
	}
	if version != r1csVersion {
		return nil, mpc.Errorf(mpc.Parse, "unsupported constraint file version %d", version)
	}
	if err := binary.Read(r, binary.LittleEndian, &nSections); err != nil {
		return nil, mpc.Wrap(mpc.Parse, err, "while reading constraint section count")
	}

	for s := uint32(0); s < nSections; s++ {
		var sectionType uint32
		var sectionSize uint64
		if err := binary.Read(r, binary.LittleEndian, &sectionType); err != nil {
			return nil, mpc.Wrap(mpc.Parse, err, "while reading constraint section type")
		}
		if err := binary.Read(r, binary.LittleEndian, &sectionSize); err != nil {
			return nil, mpc.Wrap(mpc.Parse, err, "while reading constraint section size")
		}

		if sectionType != r1csSectionHeader {
			if _, err := io.CopyN(io.Discard, r, int64(sectionSize)); err != nil {
				return nil, mpc.Wrap(mpc.Parse, err, "while skipping constraint section")
			}
			continue
		}
		return readR1CSHeaderSection(r, sectionSize)
	}
	return nil, mpc.Errorf(mpc.Parse, "constraint file has no header section")
}

func readR1CSHeaderSection(r io.Reader, size uint64) (*R1CSHeader, error) {
	var n8 uint32
	if err := binary.Read(r, binary.LittleEndian, &n8); err != nil {
		return nil, mpc.Wrap(mpc.Parse, err, "while reading constraint header")
	}
	if uint64(n8)+32 != size {
		return nil, mpc.Errorf(mpc.Parse, "constraint header section is %d bytes, expected %d", size, n8+32)
	}

	prime := make([]byte, n8)
	if _, err := io.ReadFull(r, prime); err != nil {
		return nil, mpc.Wrap(mpc.Parse, err, "while reading constraint field prime")
	}
	slices.Reverse(prime)

	h := &R1CSHeader{Prime: new(big.Int).SetBytes(prime)}
	for _, field := range []any{&h.NWires, &h.NPubOutputs, &h.NPubInputs, &h.NPrvInputs, &h.NLabels, &h.NConstraints} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return nil, mpc.Wrap(mpc.Parse, err, "while reading constraint header")
		}
	}
	return h, nil
}

package witness

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"slices"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
)

// circom .wtns binary layout: a 4-byte magic, a version and a section
// count, then typed sections each prefixed by a 4-byte type and an
// 8-byte size. All integers and field elements are little-endian.
const (
	wtnsMagic   = "wtns"
	wtnsVersion = 2

	wtnsSectionHeader = 1
	wtnsSectionData   = 2
)

// ReadWtns reads a circom witness file and returns the extended witness
// as field elements of the given curve. The file's prime must match the
// curve's scalar field and every element must be in canonical (reduced)
// form; violations surface as Parse errors.
func ReadWtns[E any, pE curve.Element[E]](r io.Reader, modulus *big.Int) ([]E, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, mpc.Wrap(mpc.Parse, err, "while reading witness file magic")
	}
	if string(magic[:]) != wtnsMagic {
		return nil, mpc.Errorf(mpc.Parse, "invalid witness file magic %q", magic[:])
	}

	var version, nSections uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, mpc.Wrap(mpc.Parse, err, "while reading witness file version")
	}
	if version != wtnsVersion {
		return nil, mpc.Errorf(mpc.Parse, "unsupported witness file version %d", version)
	}
	if err := binary.Read(r, binary.LittleEndian, &nSections); err != nil {
		return nil, mpc.Wrap(mpc.Parse, err, "while reading witness section count")
	}

	var nWitness uint32
	var haveHeader bool
	var elements []E
	for s := uint32(0); s < nSections; s++ {
		var sectionType uint32
		var sectionSize uint64
		if err := binary.Read(r, binary.LittleEndian, &sectionType); err != nil {
			return nil, mpc.Wrap(mpc.Parse, err, "while reading witness section type")
		}
		if err := binary.Read(r, binary.LittleEndian, &sectionSize); err != nil {
			return nil, mpc.Wrap(mpc.Parse, err, "while reading witness section size")
		}

		switch sectionType {
		case wtnsSectionHeader:
			var err error
			if nWitness, err = readWtnsHeader(r, sectionSize, modulus); err != nil {
				return nil, err
			}
			haveHeader = true
		case wtnsSectionData:
			if !haveHeader {
				return nil, mpc.Errorf(mpc.Parse, "witness data section before header")
			}
			n8 := uint64(curve.Bytes[E, pE]())
			if sectionSize != uint64(nWitness)*n8 {
				return nil, mpc.Errorf(mpc.Parse, "witness data section is %d bytes, expected %d", sectionSize, uint64(nWitness)*n8)
			}
			var err error
			if elements, err = readWtnsData[E, pE](r, int(nWitness), modulus); err != nil {
				return nil, err
			}
		default:
			if _, err := io.CopyN(io.Discard, r, int64(sectionSize)); err != nil {
				return nil, mpc.Wrap(mpc.Parse, err, "while skipping witness section")
			}
		}
	}

	if elements == nil {
		return nil, mpc.Errorf(mpc.Parse, "witness file has no data section")
	}
	return elements, nil
}

func readWtnsHeader(r io.Reader, size uint64, modulus *big.Int) (nWitness uint32, err error) {
	var n8 uint32
	if err = binary.Read(r, binary.LittleEndian, &n8); err != nil {
		return 0, mpc.Wrap(mpc.Parse, err, "while reading witness header")
	}
	if uint64(n8)+8 != size {
		return 0, mpc.Errorf(mpc.Parse, "witness header section is %d bytes, expected %d", size, n8+8)
	}

	prime := make([]byte, n8)
	if _, err = io.ReadFull(r, prime); err != nil {
		return 0, mpc.Wrap(mpc.Parse, err, "while reading witness field prime")
	}
	slices.Reverse(prime)
	if new(big.Int).SetBytes(prime).Cmp(modulus) != 0 {
		return 0, mpc.Errorf(mpc.Parse, "witness file field prime does not match the configured curve")
	}

	if err = binary.Read(r, binary.LittleEndian, &nWitness); err != nil {
		return 0, mpc.Wrap(mpc.Parse, err, "while reading witness element count")
	}
	return nWitness, nil
}

func readWtnsData[E any, pE curve.Element[E]](r io.Reader, count int, modulus *big.Int) ([]E, error) {
	n8 := curve.Bytes[E, pE]()
	buf := make([]byte, n8)
	elements := make([]E, count)
	var v big.Int
	for k := range elements {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, mpc.Wrap(mpc.Parse, err, "while reading witness elements")
		}
		slices.Reverse(buf)
		if v.SetBytes(buf).Cmp(modulus) >= 0 {
			return nil, mpc.Errorf(mpc.Parse, "witness element %d is not in canonical form", k)
		}
		pE(&elements[k]).SetBigInt(&v)
	}
	return elements, nil
}

// WriteWtns writes the extended witness in the circom .wtns binary
// format, the exact inverse of [ReadWtns].
func WriteWtns[E any, pE curve.Element[E]](w io.Writer, wit []E, modulus *big.Int) error {
	n8 := curve.Bytes[E, pE]()

	if _, err := w.Write([]byte(wtnsMagic)); err != nil {
		return fmt.Errorf("io.Writer.Write: %w", err)
	}
	for _, v := range []uint32{wtnsVersion, 2} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("binary.Write: %w", err)
		}
	}

	// header section
	if err := binary.Write(w, binary.LittleEndian, uint32(wtnsSectionHeader)); err != nil {
		return fmt.Errorf("binary.Write: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(n8)+8); err != nil {
		return fmt.Errorf("binary.Write: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(n8)); err != nil {
		return fmt.Errorf("binary.Write: %w", err)
	}
	prime := modulus.FillBytes(make([]byte, n8))
	slices.Reverse(prime)
	if _, err := w.Write(prime); err != nil {
		return fmt.Errorf("io.Writer.Write: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(wit))); err != nil {
		return fmt.Errorf("binary.Write: %w", err)
	}

	// data section
	if err := binary.Write(w, binary.LittleEndian, uint32(wtnsSectionData)); err != nil {
		return fmt.Errorf("binary.Write: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(wit))*uint64(n8)); err != nil {
		return fmt.Errorf("binary.Write: %w", err)
	}
	for k := range wit {
		le := pE(&wit[k]).Marshal()
		slices.Reverse(le)
		if _, err := w.Write(le); err != nil {
			return fmt.Errorf("io.Writer.Write: %w", err)
		}
	}
	return nil
}

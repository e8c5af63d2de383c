package witness

import (
	"encoding/json"
	"io"
	"math/big"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
)

// ParseInput parses a plaintext circuit input file: a JSON object
// mapping each signal name to a field-element literal or a (possibly
// nested) array of literals. Nested arrays are flattened in order.
// Literals follow [curve.ParseElement]'s rules; a non-string leaf fails
// with a Parse error naming the offending value.
func ParseInput[E any, pE curve.Element[E]](r io.Reader, modulus *big.Int) (map[string][]E, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, mpc.Wrap(mpc.Parse, err, "while parsing input file")
	}

	inputs := make(map[string][]E, len(raw))
	for name, value := range raw {
		values, err := parseValue[E, pE](value, modulus)
		if err != nil {
			return nil, mpc.Wrap(mpc.Parse, err, "while parsing input signal "+name)
		}
		inputs[name] = values
	}
	return inputs, nil
}

func parseValue[E any, pE curve.Element[E]](value any, modulus *big.Int) ([]E, error) {
	switch value := value.(type) {
	case string:
		e, err := curve.ParseElement[E, pE](value, modulus)
		if err != nil {
			return nil, err
		}
		return []E{e}, nil
	case []any:
		var out []E
		for _, inner := range value {
			values, err := parseValue[E, pE](inner, modulus)
			if err != nil {
				return nil, err
			}
			out = append(out, values...)
		}
		return out, nil
	default:
		return nil, mpc.Errorf(mpc.Parse, "expected input to be a field element string, got %v", value)
	}
}

// WritePublicInputs writes the public-input output file: a JSON array
// of decimal field-element strings, always omitting the constant-1
// element at position 0 of the witness.
func WritePublicInputs[E any, pE curve.Element[E]](w io.Writer, public []E) error {
	out := make([]string, 0, max(len(public)-1, 0))
	for i := range public {
		if i == 0 {
			continue
		}
		out = append(out, curve.FormatElement[E, pE](&public[i]))
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return mpc.Wrap(mpc.Parse, err, "while writing public inputs")
	}
	return nil
}

// ReadPublicInputs reads a public-input file back into field elements.
func ReadPublicInputs[E any, pE curve.Element[E]](r io.Reader, modulus *big.Int) ([]E, error) {
	var raw []string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, mpc.Wrap(mpc.Parse, err, "while parsing public inputs")
	}
	out := make([]E, len(raw))
	for i, s := range raw {
		e, err := curve.ParseElement[E, pE](s, modulus)
		if err != nil {
			return nil, mpc.Wrap(mpc.Parse, err, "while parsing public inputs")
		}
		out[i] = e
	}
	return out, nil
}

package weakprng

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// TestVector is one seeded generator run: the first forward steps, their packed
// mantissas, and the bytes the key-recovery scenario draws from it.
type TestVector struct {
	Name  string       `json:"name"`
	S0    string       `json:"s0"`
	S1    string       `json:"s1"`
	Steps []StepVector `json:"steps"`

	// Packed is the hex encoding of all step mantissas.
	Packed string `json:"packed"`

	// Scenario bytes: two 32-byte keys and two 16-byte IVs drawn in order
	// from a byte source prefilled with 128 bytes over a V8 source.
	KeyEnc string `json:"keyEnc"`
	KeyMac string `json:"keyMac"`
	IV1    string `json:"iv1"`
	IV2    string `json:"iv2"`

	// Recovered is the state an attacker recovers from the IVs.
	Recovered0 string `json:"recovered0"`
	Recovered1 string `json:"recovered1"`
}

// StepVector is the state and output after one forward step.
type StepVector struct {
	S0       string  `json:"s0"`
	S1       string  `json:"s1"`
	Mantissa string  `json:"mantissa"`
	Output   float64 `json:"output"`
}

// TestVectorSuite contains all test vectors with metadata about their source.
type TestVectorSuite struct {
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Vectors     []TestVector `json:"vectors"`
}

// LoadTestVectors loads test vectors from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadTestVectors(path string) (*TestVectorSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test vectors: %w", err)
	}

	var suite TestVectorSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse test vectors: %w", err)
	}

	return &suite, nil
}

func parseWord(name, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func parseState(s0, s1 string) (State, error) {
	a, err := parseWord("s0", s0)
	if err != nil {
		return State{}, err
	}
	b, err := parseWord("s1", s1)
	if err != nil {
		return State{}, err
	}
	return State{S0: a, S1: b}, nil
}

// Seed returns the initial state of the vector.
func (tv *TestVector) Seed() (State, error) {
	return parseState(tv.S0, tv.S1)
}

// RecoveredState returns the state expected from recovery.
func (tv *TestVector) RecoveredState() (State, error) {
	return parseState(tv.Recovered0, tv.Recovered1)
}

// PackedBytes returns the decoded packed mantissas.
func (tv *TestVector) PackedBytes() ([]byte, error) {
	return decodeHexField("packed", tv.Packed)
}

// ScenarioBytes returns the decoded keys and IVs.
func (tv *TestVector) ScenarioBytes() (keyEnc, keyMac, iv1, iv2 []byte, err error) {
	if keyEnc, err = decodeHexField("keyEnc", tv.KeyEnc); err != nil {
		return
	}
	if keyMac, err = decodeHexField("keyMac", tv.KeyMac); err != nil {
		return
	}
	if iv1, err = decodeHexField("iv1", tv.IV1); err != nil {
		return
	}
	iv2, err = decodeHexField("iv2", tv.IV2)
	return
}

// State returns the state after the step.
func (sv *StepVector) State() (State, error) {
	return parseState(sv.S0, sv.S1)
}

// MantissaValue returns the decoded mantissa.
func (sv *StepVector) MantissaValue() (uint64, error) {
	return parseWord("mantissa", sv.Mantissa)
}

func decodeHexField(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s hex: %w", name, err)
	}
	return b, nil
}

package bytecode

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Magic bytes for serialized programs: "SJBC" (SymJit ByteCode)
var BytecodeMagic = []byte{'S', 'J', 'B', 'C'}

// cborEncMode encodes programs deterministically. Floats are written at
// full width so constants survive a round trip bit for bit.
var cborEncMode cbor.EncMode

func init() {
	opts := cbor.CanonicalEncOptions()
	opts.ShortestFloat = cbor.ShortestFloatNone
	opts.NaNConvert = cbor.NaNConvertNone
	opts.InfConvert = cbor.InfConvertNone
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Serialize encodes the program to bytes for storage/transport.
// Format:
//
//	[magic:4] [version:2] [cbor program:...]
func (p *Program) Serialize() ([]byte, error) {
	body, err := cborEncMode.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("bytecode: marshal program: %w", err)
	}
	buf := make([]byte, 0, 6+len(body))
	buf = append(buf, BytecodeMagic...)
	buf = binary.BigEndian.AppendUint16(buf, p.Version)
	buf = append(buf, body...)
	return buf, nil
}

// Deserialize decodes and validates a program.
func Deserialize(data []byte) (*Program, error) {
	if len(data) < 6 {
		return nil, fmt.Errorf("bytecode too short: need at least 6 bytes, got %d", len(data))
	}
	if string(data[0:4]) != string(BytecodeMagic) {
		return nil, fmt.Errorf("invalid bytecode magic: expected %q, got %q", BytecodeMagic, data[0:4])
	}
	version := binary.BigEndian.Uint16(data[4:6])
	if version > BytecodeVersion {
		return nil, fmt.Errorf("bytecode version %d is newer than supported version %d", version, BytecodeVersion)
	}

	var p Program
	if err := cbor.Unmarshal(data[6:], &p); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal program: %w", err)
	}
	if p.Version != version {
		return nil, fmt.Errorf("bytecode: header version %d does not match program version %d", version, p.Version)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

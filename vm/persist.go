package vm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/chazu/symjit/pkg/bytecode"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// ArtifactMagic identifies a persisted artifact.
var ArtifactMagic = [4]byte{'S', 'J', 'I', 'T'}

// ArtifactVersion is the persisted format version.
const ArtifactVersion uint16 = 1

// The payload embeds the program in its own wire format.
// Header layout: magic(4) + version(2) + payload length(4) + xxh3(8) = 18
const artifactHeaderSize = 18

// maxPayload bounds the payload length read from a header.
const maxPayload = 1 << 30

// artifactPayload is the CBOR body of a persisted artifact.
type artifactPayload struct {
	Config      Config            `cbor:"1,keyasint"`
	CountParams int               `cbor:"2,keyasint"`
	CountObs    int               `cbor:"3,keyasint"`
	ID          []byte            `cbor:"4,keyasint"`
	Lanes       int               `cbor:"5,keyasint"`
	Program     []byte            `cbor:"6,keyasint"` // bytecode.Program.Serialize
}

var cborEncMode cbor.EncMode

func init() {
	opts := cbor.CanonicalEncOptions()
	opts.ShortestFloat = cbor.ShortestFloatNone
	opts.NaNConvert = cbor.NaNConvertNone
	opts.InfConvert = cbor.InfConvertNone
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalBinary encodes the artifact in the persisted format:
//
//	[magic:4] [version:2] [length:4] [xxh3:8] [cbor payload:length]
func (a *Artifact) MarshalBinary() ([]byte, error) {
	prog, err := a.prog.Serialize()
	if err != nil {
		return nil, fmt.Errorf("vm: marshal artifact: %w", err)
	}
	body, err := cborEncMode.Marshal(artifactPayload{
		Config:      a.config,
		CountParams: a.countParams,
		CountObs:    a.countObs,
		ID:          a.id[:],
		Lanes:       Lanes,
		Program:     prog,
	})
	if err != nil {
		return nil, fmt.Errorf("vm: marshal artifact: %w", err)
	}

	buf := make([]byte, 0, artifactHeaderSize+len(body))
	buf = append(buf, ArtifactMagic[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, ArtifactVersion)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(body)))
	buf = binary.LittleEndian.AppendUint64(buf, xxh3.Hash(body))
	buf = append(buf, body...)
	return buf, nil
}

// UnmarshalBinary decodes a persisted artifact into a and recompiles its
// kernel.
func (a *Artifact) UnmarshalBinary(data []byte) error {
	loaded, err := Load(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*a = *loaded
	return nil
}

// Save writes the artifact to w.
func (a *Artifact) Save(w io.Writer) error {
	data, err := a.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("vm: write artifact: %w", err)
	}
	log.Infof("saved artifact %s (%d bytes)", a.id, len(data))
	return nil
}

// Load reads an artifact written by Save. The result has the same ID,
// config and counts as the saved artifact and evaluates identically.
func Load(r io.Reader) (*Artifact, error) {
	var hdr [artifactHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}
	if !bytes.Equal(hdr[0:4], ArtifactMagic[:]) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, hdr[0:4])
	}
	if v := binary.LittleEndian.Uint16(hdr[4:6]); v != ArtifactVersion {
		return nil, fmt.Errorf("%w: file version %d, supported %d", ErrVersion, v, ArtifactVersion)
	}
	size := binary.LittleEndian.Uint32(hdr[6:10])
	sum := binary.LittleEndian.Uint64(hdr[10:18])
	if size > maxPayload {
		return nil, fmt.Errorf("%w: payload length %d", ErrCorrupt, size)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: payload: %w", ErrCorrupt, err)
	}
	if xxh3.Hash(body) != sum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	var pl artifactPayload
	if err := cbor.Unmarshal(body, &pl); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if len(pl.Program) == 0 {
		return nil, fmt.Errorf("%w: missing program", ErrCorrupt)
	}
	prog, err := bytecode.Deserialize(pl.Program)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if pl.Config.SIMD && pl.Lanes != Lanes {
		return nil, fmt.Errorf("%w: saved with %d lanes, this build uses %d", ErrVersion, pl.Lanes, Lanes)
	}
	id, err := uuid.FromBytes(pl.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrCorrupt, err)
	}

	a, err := compileWithID(prog, pl.Config, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if a.countParams != pl.CountParams || a.countObs != pl.CountObs {
		return nil, fmt.Errorf("%w: counts %d/%d do not match program (%d/%d)",
			ErrCorrupt, pl.CountParams, pl.CountObs, a.countParams, a.countObs)
	}
	log.Infof("loaded artifact %s (%s)", a.id, a.config)
	return a, nil
}

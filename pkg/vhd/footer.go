package vhd

import (
	"bytes"
	"encoding/binary"

	"github.com/google/uuid"
)

// FooterSize is the length of the record trailing every VHD image.
const FooterSize = 512

const (
	cookieConectix = uint64(0x636F6E6563746978) // "conectix"

	// Azure rejects images that do not declare "win " as their creator
	// application, so qemu-img output ("qemu") fails to import.
	creatorWin     = uint32(0x77696E20) // "win "
	creatorVersion = uint32(0x00060003)
	creatorHostWin = uint32(0x5769326B) // "Wi2k"

	diskTypeFixed = uint32(2)
)

// Footer is the hard disk footer from the VHD format specification. Field
// order and widths match the on-disk layout so the struct can be serialized
// directly with encoding/binary.
type Footer struct {
	Cookie             uint64
	Features           uint32
	FileFormatVersion  uint32
	DataOffset         uint64
	TimeStamp          uint32
	CreatorApplication uint32
	CreatorVersion     uint32
	CreatorHostOS      uint32
	OriginalSize       uint64
	CurrentSize        uint64
	DiskGeometry       uint32
	DiskType           uint32
	Checksum           uint32
	UniqueID           [16]byte
	SavedState         byte
	Reserved           [427]byte
}

// NewFooter assembles a fixed-disk footer for a virtual disk of the given
// size in bytes. The unique ID is freshly generated on every call; all
// other fields are deterministic in the size. The timestamp is left unset
// so that repeated conversions of the same image stay comparable.
func NewFooter(size int64) *Footer {

	footer := &Footer{
		Cookie:             cookieConectix,
		Features:           0x00000002,
		FileFormatVersion:  0x00010000,
		DataOffset:         0xFFFFFFFFFFFFFFFF, // fixed disk, no parent
		TimeStamp:          0,
		CreatorApplication: creatorWin,
		CreatorVersion:     creatorVersion,
		CreatorHostOS:      creatorHostWin,
		OriginalSize:       uint64(size),
		CurrentSize:        uint64(size),
		DiskGeometry:       CHS(size).Encode(),
		DiskType:           diskTypeFixed,
	}

	id := uuid.New()
	copy(footer.UniqueID[:], id[:])

	return footer
}

// MarshalBinary serializes the footer to exactly FooterSize bytes,
// big-endian throughout. The checksum field has a self-referential
// definition, so the record is serialized twice: once with the checksum
// zeroed to take the byte sum, and again with the real value in place.
func (footer *Footer) MarshalBinary() ([]byte, error) {

	tmp := *footer
	tmp.Checksum = 0

	buf := new(bytes.Buffer)
	err := binary.Write(buf, binary.BigEndian, &tmp)
	if err != nil {
		return nil, err
	}

	footer.Checksum = checksum(buf.Bytes())

	buf.Reset()
	err = binary.Write(buf, binary.BigEndian, footer)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a 512-byte footer record. It performs no
// validation; it exists so that callers (and our own tests) can inspect
// what was written.
func (footer *Footer) UnmarshalBinary(data []byte) error {
	return binary.Read(bytes.NewReader(data), binary.BigEndian, footer)
}

// checksum is the ones' complement of the unsigned sum of every byte in
// the serialized record.
func checksum(b []byte) uint32 {
	var sum uint32
	for _, x := range b {
		sum += uint32(x)
	}
	return ^sum
}

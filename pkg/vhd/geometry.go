package vhd

// Geometry holds the cylinder/head/sectors-per-track triple reported in a
// VHD footer. It is a legacy BIOS approximation of the disk size; nothing
// addresses the disk through it, but platforms validate it on import.
type Geometry struct {
	Cylinders       uint16
	Heads           uint8
	SectorsPerTrack uint8
}

const maxCHSSectors = 65535 * 16 * 255

// CHS derives the disk geometry for a virtual disk of the given size in
// bytes, as described in the VHD format specification. Every branch and
// floor division below is deliberate and must not be simplified: importers
// compare these fields against known-good output bit for bit.
func CHS(size int64) Geometry {

	var heads, sectorsPerTrack int64
	var cylinderTimesHeads int64

	totalSectors := size / 512
	if totalSectors > maxCHSSectors {
		totalSectors = maxCHSSectors
	}

	if totalSectors >= 65535*16*63 {
		sectorsPerTrack = 255
		heads = 16
		cylinderTimesHeads = totalSectors / sectorsPerTrack
	} else {
		sectorsPerTrack = 17
		cylinderTimesHeads = totalSectors / sectorsPerTrack
		heads = (cylinderTimesHeads + 1023) >> 10
		if heads < 4 {
			heads = 4
		}
		if cylinderTimesHeads >= heads*1024 || heads > 16 {
			sectorsPerTrack = 31
			heads = 16
			cylinderTimesHeads = totalSectors / sectorsPerTrack
		}
		if cylinderTimesHeads >= heads*1024 {
			sectorsPerTrack = 63
			heads = 16
			cylinderTimesHeads = totalSectors / sectorsPerTrack
		}
	}

	return Geometry{
		Cylinders:       uint16(cylinderTimesHeads / heads),
		Heads:           uint8(heads),
		SectorsPerTrack: uint8(sectorsPerTrack),
	}
}

// Encode packs the geometry into the footer's 4-byte disk geometry field:
// two bytes of cylinders, one of heads, one of sectors per track.
func (g Geometry) Encode() uint32 {
	return uint32(g.Cylinders)<<16 | uint32(g.Heads)<<8 | uint32(g.SectorsPerTrack)
}

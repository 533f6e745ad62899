package pkguid

// Each shape is described as an ordered list of bit fields consumed
// MSB-first. One encode routine serves all shapes, so the per-shape
// functions only differ in their field tables.

// Field bit widths per shape.
const (
	uuidTimeLowBits = 32
	uuidTimeMidBits = 16
	uuidVersionBits = 4
	uuidTimeHiBits  = 12
	uuidVariantBits = 2
	uuidSeqBits     = 14
	uuidNodeBits    = 48

	short128TimeBits = 64
	short128NodeBits = 32
	short128SeqBits  = 32

	short96TimeBits = 48
	short96SeqBits  = 24
	short96NodeBits = 24

	short64TimeBits = 42
	short64SeqBits  = 22
)

// Maximum sequence value per shape.
const (
	uuidSeqMax     = 1<<uuidSeqBits - 1
	short128SeqMax = 1<<short128SeqBits - 1
	short96SeqMax  = 1<<short96SeqBits - 1
	short64SeqMax  = 1<<short64SeqBits - 1
)

type bitField struct {
	width uint
	value uint64
}

// packFields writes the fields into buf MSB-first. The field widths
// must sum to exactly len(buf)*8; values wider than their field are
// truncated to the low bits.
func packFields(buf []byte, fields []bitField) {
	off := uint(0)
	for _, f := range fields {
		putBits(buf, off, f.width, f.value)
		off += f.width
	}
}

func putBits(buf []byte, off, width uint, v uint64) {
	for i := uint(0); i < width; i++ {
		pos := off + i
		if v>>(width-1-i)&1 == 1 {
			buf[pos/8] |= 1 << (7 - pos%8)
		}
	}
}

func getBits(buf []byte, off, width uint) uint64 {
	var v uint64
	for i := uint(0); i < width; i++ {
		pos := off + i
		v <<= 1
		v |= uint64(buf[pos/8] >> (7 - pos%8) & 1)
	}
	return v
}

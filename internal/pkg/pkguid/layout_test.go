package pkguid

import (
	"bytes"
	"testing"
)

func TestPutBitsCrossesByteBoundary(t *testing.T) {
	buf := make([]byte, 2)
	putBits(buf, 4, 8, 0xAB)

	if !bytes.Equal(buf, []byte{0x0A, 0xB0}) {
		t.Fatalf("buf = %x, want 0ab0", buf)
	}
}

func TestGetBitsRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	putBits(buf, 3, 42, 0x2AAAAAAAAAA)

	if got := getBits(buf, 3, 42); got != 0x2AAAAAAAAAA {
		t.Fatalf("getBits = %x, want 2aaaaaaaaaa", got)
	}
	if got := getBits(buf, 0, 3); got != 0 {
		t.Fatalf("leading bits = %x, want 0", got)
	}
}

func TestPackFieldsMatchesManualLayout(t *testing.T) {
	buf := make([]byte, 12)
	packFields(buf, []bitField{
		{short96TimeBits, 0x010203040506},
		{short96SeqBits, 0x0A0B0C},
		{short96NodeBits, 0x111213},
	})

	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x0A, 0x0B, 0x0C, 0x11, 0x12, 0x13}
	if !bytes.Equal(buf, want) {
		t.Fatalf("buf = %x, want %x", buf, want)
	}
}

func TestPackFieldsTruncatesWideValues(t *testing.T) {
	buf := make([]byte, 1)
	packFields(buf, []bitField{{8, 0x1FF}})

	if buf[0] != 0xFF {
		t.Fatalf("buf = %x, want ff", buf)
	}
}

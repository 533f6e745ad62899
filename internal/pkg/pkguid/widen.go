package pkguid

// Widening conversions lift a narrow identifier into a wider shape
// without touching the generator. Callers that store the compact form
// can recover the wider layout later, provided they supply the same
// epoch the identifier was generated with and the discriminator bytes
// the narrow shape had no room for.

// Widen96 lifts a 96-bit identifier into the Short128 layout. The
// coarse timestamp is re-expanded to 100 ns resolution (low bits are
// zero) and the 3-byte node is extended to 4 bytes with nodeHi.
func Widen96(id [12]byte, epoch int64, nodeHi byte) [16]byte {
	t := getBits(id[:], 0, short96TimeBits)
	s := getBits(id[:], short96TimeBits, short96SeqBits)
	n := getBits(id[:], short96TimeBits+short96SeqBits, short96NodeBits)

	var out [16]byte
	packFields(out[:], []bitField{
		{short128TimeBits, (t + uint64(epoch)>>coarseShift) << coarseShift},
		{short128NodeBits, uint64(nodeHi)<<short96NodeBits | n},
		{short128SeqBits, s},
	})
	return out
}

// Widen64 lifts a 64-bit identifier into the Short96 layout, attaching
// the node discriminator it was generated without.
func Widen64(id [8]byte, node [3]byte) [12]byte {
	t := getBits(id[:], 0, short64TimeBits)
	s := getBits(id[:], short64TimeBits, short64SeqBits)

	var out [12]byte
	packFields(out[:], []bitField{
		{short96TimeBits, t},
		{short96SeqBits, s},
		{short96NodeBits, nodeValue(node[:])},
	})
	return out
}

// Widen64To128 lifts a 64-bit identifier into the Short128 layout.
func Widen64To128(id [8]byte, epoch int64, node [4]byte) [16]byte {
	return Widen96(Widen64(id, [3]byte{node[1], node[2], node[3]}), epoch, node[0])
}

package pkguid

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"
)

type shape int

const (
	shapeUUIDv1 shape = iota
	shapeShort128
	shapeShort96
	shapeShort64
	shapeCount
)

// register holds the last observed tick and the same-tick sequence for
// one shape. Shapes keep separate registers because they observe time
// at different resolutions: a shared fine-grained register would let
// two calls in distinct 100 ns ticks collide inside one coarse tick.
type register struct {
	tick int64
	seq  uint64
}

// Generator produces fixed-width, time-ordered byte identifiers.
//
// A Generator owns all mutable state needed to keep identifiers of one
// shape distinct within a process; construct one per process and hand
// it to every call site. All methods are safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	clock Clock
	regs  [shapeCount]register
}

// NewGenerator creates a Generator reading time from clock. A nil
// clock falls back to SystemClock.
func NewGenerator(clock Clock) *Generator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Generator{clock: clock}
}

// next advances the register for shape s and returns a (tick, seq)
// pair never handed out before. The tick is observed at resolution
// 100ns<<shift. If the sequence saturates within one tick, next either
// re-reads the clock until it advances (wait=true) or fails with
// ErrCounterExhausted. The caller must hold g.mu.
func (g *Generator) next(s shape, shift uint, seqMax uint64, wait bool) (int64, uint64, error) {
	r := &g.regs[s]
	for {
		t, err := g.readTick()
		if err != nil {
			return 0, 0, err
		}
		t >>= shift

		// If the wall clock stepped backwards, pin to the last
		// observed tick so time-bearing bytes never decrease.
		if t < r.tick {
			t = r.tick
		}

		if t == r.tick {
			if r.seq < seqMax {
				r.seq++
				return t, r.seq, nil
			}
			if !wait {
				return 0, 0, ErrCounterExhausted
			}
			// The wait is bounded by the tick resolution, at most
			// one coarse tick (819.2 microseconds).
			time.Sleep(time.Microsecond)
			continue
		}

		r.tick = t
		r.seq = 0
		return t, 0, nil
	}
}

func (g *Generator) readTick() (int64, error) {
	t, err := g.clock.Ticks()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrClock, err)
	}
	if t < 0 {
		return 0, ErrClock
	}
	return t, nil
}

// UUIDv1 returns an RFC 4122 version 1 UUID carrying the 6-byte node
// discriminator. The timestamp is the current 100 ns tick since the
// gregorian epoch and the 14-bit clock sequence disambiguates calls
// within one tick. When the clock sequence saturates, the call waits
// for the next tick rather than failing.
//
// Fails with ErrClock if the time source cannot be read or the tick
// no longer fits the 60-bit time field.
func (g *Generator) UUIDv1(node [6]byte) ([16]byte, error) {
	var id [16]byte

	g.mu.Lock()
	defer g.mu.Unlock()

	t, s, err := g.next(shapeUUIDv1, 0, uuidSeqMax, true)
	if err != nil {
		return id, err
	}

	ut := uint64(t) + gregorianOffset
	if ut >= 1<<60 {
		return id, ErrClock
	}

	packFields(id[:], []bitField{
		{uuidTimeLowBits, ut & 0xFFFFFFFF},
		{uuidTimeMidBits, ut >> 32 & 0xFFFF},
		{uuidVersionBits, 1},
		{uuidTimeHiBits, ut >> 48 & 0x0FFF},
		{uuidVariantBits, 0b10},
		{uuidSeqBits, s},
		{uuidNodeBits, nodeValue(node[:])},
	})
	return id, nil
}

// NextShort128 returns a 16-byte identifier laid out as a 64-bit tick,
// the 4-byte node discriminator, and a 32-bit sequence. The leading
// tick bytes are big-endian, so identifiers sort chronologically.
// Like UUIDv1 it waits for the next tick on sequence saturation,
// though a 32-bit sequence cannot realistically fill inside 100 ns.
func (g *Generator) NextShort128(node [4]byte) ([16]byte, error) {
	var id [16]byte

	g.mu.Lock()
	defer g.mu.Unlock()

	t, s, err := g.next(shapeShort128, 0, short128SeqMax, true)
	if err != nil {
		return id, err
	}

	packFields(id[:], []bitField{
		{short128TimeBits, uint64(t)},
		{short128NodeBits, nodeValue(node[:])},
		{short128SeqBits, s},
	})
	return id, nil
}

// NextShort96 returns a 12-byte identifier: a 48-bit coarse timestamp
// rebased by epoch, a 24-bit sequence, and the 3-byte node
// discriminator. One coarse tick is 819.2 microseconds; epoch is given
// in 100 ns ticks since the Unix epoch and is applied at coarse-tick
// resolution. If the sequence saturates within one coarse tick the
// call fails with ErrCounterExhausted instead of stalling for up to a
// full coarse tick.
//
// Fails with ErrInvalidEpoch when the rebased time is negative or does
// not fit the 48-bit field.
func (g *Generator) NextShort96(node [3]byte, epoch int64) ([12]byte, error) {
	var id [12]byte

	g.mu.Lock()
	defer g.mu.Unlock()

	t, s, err := g.next(shapeShort96, coarseShift, short96SeqMax, false)
	if err != nil {
		return id, err
	}

	rebased, err := rebase(t, epoch, short96TimeBits)
	if err != nil {
		return id, err
	}

	packFields(id[:], []bitField{
		{short96TimeBits, rebased},
		{short96SeqBits, s},
		{short96NodeBits, nodeValue(node[:])},
	})
	return id, nil
}

// NextShort64 returns an 8-byte identifier: a 42-bit coarse timestamp
// rebased by epoch and a 22-bit sequence. There is no discriminator,
// so uniqueness holds per process only. Sequence saturation and epoch
// handling follow NextShort96.
func (g *Generator) NextShort64(epoch int64) ([8]byte, error) {
	var id [8]byte

	g.mu.Lock()
	defer g.mu.Unlock()

	t, s, err := g.next(shapeShort64, coarseShift, short64SeqMax, false)
	if err != nil {
		return id, err
	}

	rebased, err := rebase(t, epoch, short64TimeBits)
	if err != nil {
		return id, err
	}

	packFields(id[:], []bitField{
		{short64TimeBits, rebased},
		{short64SeqBits, s},
	})
	return id, nil
}

// rebase shifts the coarse tick to the caller's epoch and validates it
// against the shape's time field width.
func rebase(coarseTick, epoch int64, timeBits uint) (uint64, error) {
	if epoch < 0 {
		return 0, ErrInvalidEpoch
	}
	rebased := coarseTick - epoch>>coarseShift
	if rebased < 0 {
		return 0, ErrInvalidEpoch
	}
	if uint64(rebased) >= 1<<timeBits {
		return 0, ErrInvalidEpoch
	}
	return uint64(rebased), nil
}

// nodeValue packs up to 8 discriminator bytes into a big-endian value.
func nodeValue(node []byte) uint64 {
	var b [8]byte
	copy(b[8-len(node):], node)
	return binary.BigEndian.Uint64(b[:])
}

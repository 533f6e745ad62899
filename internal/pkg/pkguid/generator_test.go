package pkguid

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeClock struct {
	mu   sync.Mutex
	tick int64
}

func (c *fakeClock) Ticks() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick, nil
}

func (c *fakeClock) set(t int64) {
	c.mu.Lock()
	c.tick = t
	c.mu.Unlock()
}

type failClock struct{}

func (failClock) Ticks() (int64, error) {
	return 0, errors.New("no time source")
}

func TestSystemClockTicks(t *testing.T) {
	ticks, err := SystemClock{}.Ticks()
	if err != nil {
		t.Fatalf("Ticks() err = %v", err)
	}
	if ticks <= 0 {
		t.Fatalf("Ticks() = %d, want positive", ticks)
	}
}

func TestUUIDv1SameTickDistinct(t *testing.T) {
	gen := NewGenerator(&fakeClock{tick: 1_000_000})
	node := [6]byte{1, 2, 3, 4, 5, 6}

	seen := make(map[[16]byte]bool)
	for i := 0; i < 100; i++ {
		id, err := gen.UUIDv1(node)
		if err != nil {
			t.Fatalf("UUIDv1() err = %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id on call %d: %x", i, id)
		}
		seen[id] = true

		parsed, err := uuid.FromBytes(id[:])
		if err != nil {
			t.Fatalf("FromBytes: %v", err)
		}
		if parsed.Version() != 1 {
			t.Fatalf("version = %d, want 1", parsed.Version())
		}
		if parsed.Variant() != uuid.RFC4122 {
			t.Fatalf("variant = %v, want RFC4122", parsed.Variant())
		}
	}
}

func TestUUIDv1KnownLayout(t *testing.T) {
	const tick = int64(0x1234567890A)
	gen := NewGenerator(&fakeClock{tick: tick})
	node := [6]byte{1, 2, 3, 4, 5, 6}

	id, err := gen.UUIDv1(node)
	if err != nil {
		t.Fatalf("UUIDv1() err = %v", err)
	}

	if id[6]>>4 != 1 {
		t.Fatalf("version nibble = %x, want 1", id[6]>>4)
	}
	if id[8]&0xC0 != 0x80 {
		t.Fatalf("variant bits = %08b, want 10xxxxxx", id[8])
	}
	if !bytes.Equal(id[10:16], node[:]) {
		t.Fatalf("node field = %x, want %x", id[10:16], node)
	}

	ut := uint64(tick) + gregorianOffset
	if got := binary.BigEndian.Uint32(id[0:4]); got != uint32(ut) {
		t.Fatalf("time_low = %08x, want %08x", got, uint32(ut))
	}
	if got := binary.BigEndian.Uint16(id[4:6]); got != uint16(ut>>32) {
		t.Fatalf("time_mid = %04x, want %04x", got, uint16(ut>>32))
	}
	if got := binary.BigEndian.Uint16(id[6:8]); got != uint16(ut>>48&0x0FFF)|1<<12 {
		t.Fatalf("time_high_and_version = %04x", got)
	}
}

func TestUUIDv1SameTickChangesOnlyClockSequence(t *testing.T) {
	gen := NewGenerator(&fakeClock{tick: 0x1234567890A})
	node := [6]byte{1, 2, 3, 4, 5, 6}

	first, err := gen.UUIDv1(node)
	if err != nil {
		t.Fatalf("UUIDv1() err = %v", err)
	}
	second, err := gen.UUIDv1(node)
	if err != nil {
		t.Fatalf("UUIDv1() err = %v", err)
	}

	if !bytes.Equal(first[0:8], second[0:8]) {
		t.Fatalf("time fields differ: %x vs %x", first[0:8], second[0:8])
	}
	if !bytes.Equal(first[10:16], second[10:16]) {
		t.Fatalf("node fields differ: %x vs %x", first[10:16], second[10:16])
	}
	if bytes.Equal(first[8:10], second[8:10]) {
		t.Fatalf("clock sequence did not change: %x", first[8:10])
	}
}

func TestUUIDv1TimeFieldOverflow(t *testing.T) {
	gen := NewGenerator(&fakeClock{tick: 1 << 60})

	_, err := gen.UUIDv1([6]byte{})
	if !errors.Is(err, ErrClock) {
		t.Fatalf("expected ErrClock, got %v", err)
	}
}

func TestUUIDv1WaitsForNextTickOnSaturation(t *testing.T) {
	clock := &fakeClock{tick: 5000}
	gen := NewGenerator(clock)
	gen.regs[shapeUUIDv1] = register{tick: 5000, seq: uuidSeqMax}

	done := make(chan [16]byte, 1)
	go func() {
		id, err := gen.UUIDv1([6]byte{9, 9, 9, 9, 9, 9})
		if err != nil {
			t.Errorf("UUIDv1() err = %v", err)
		}
		done <- id
	}()

	time.AfterFunc(10*time.Millisecond, func() { clock.set(5001) })

	select {
	case id := <-done:
		want := uint64(5001) + gregorianOffset
		if got := binary.BigEndian.Uint32(id[0:4]); got != uint32(want) {
			t.Fatalf("time_low = %08x, want tick 5001", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for tick to advance")
	}
}

func TestNextShort128Layout(t *testing.T) {
	const tick = int64(0x0102030405060708)
	gen := NewGenerator(&fakeClock{tick: tick})
	node := [4]byte{0xAA, 0xBB, 0xCC, 0xDD}

	id, err := gen.NextShort128(node)
	if err != nil {
		t.Fatalf("NextShort128() err = %v", err)
	}

	if got := binary.BigEndian.Uint64(id[0:8]); got != uint64(tick) {
		t.Fatalf("tick field = %016x, want %016x", got, tick)
	}
	if !bytes.Equal(id[8:12], node[:]) {
		t.Fatalf("node field = %x, want %x", id[8:12], node)
	}
	if got := binary.BigEndian.Uint32(id[12:16]); got != 0 {
		t.Fatalf("sequence = %d, want 0", got)
	}

	next, err := gen.NextShort128(node)
	if err != nil {
		t.Fatalf("NextShort128() err = %v", err)
	}
	if bytes.Compare(id[:], next[:]) >= 0 {
		t.Fatalf("expected strictly increasing ids within one tick")
	}
}

func TestNextShort128ClockRegression(t *testing.T) {
	clock := &fakeClock{tick: 2000}
	gen := NewGenerator(clock)

	first, err := gen.NextShort128([4]byte{1, 1, 1, 1})
	if err != nil {
		t.Fatalf("NextShort128() err = %v", err)
	}

	clock.set(1500)
	second, err := gen.NextShort128([4]byte{1, 1, 1, 1})
	if err != nil {
		t.Fatalf("NextShort128() err = %v", err)
	}

	if bytes.Compare(first[:], second[:]) >= 0 {
		t.Fatalf("expected second id to sort after first despite clock regression")
	}
}

func TestNextShort96MonotonicLeadingBytes(t *testing.T) {
	clock := &fakeClock{tick: 1 << 20}
	gen := NewGenerator(clock)
	node := [3]byte{7, 8, 9}

	var prev [12]byte
	for i := 0; i < 50; i++ {
		id, err := gen.NextShort96(node, 0)
		if err != nil {
			t.Fatalf("NextShort96() err = %v", err)
		}
		if i > 0 && bytes.Compare(prev[:6], id[:6]) > 0 {
			t.Fatalf("time bytes decreased: %x then %x", prev[:6], id[:6])
		}
		prev = id
		// advance roughly half a coarse tick so some calls share one
		clock.set(clock.tick + 1<<(coarseShift-1))
	}
}

func TestNextShort96DiscriminatorBytesOnly(t *testing.T) {
	const tick = int64(1 << 30)

	a, err := NewGenerator(&fakeClock{tick: tick}).NextShort96([3]byte{1, 2, 3}, 0)
	if err != nil {
		t.Fatalf("NextShort96() err = %v", err)
	}
	b, err := NewGenerator(&fakeClock{tick: tick}).NextShort96([3]byte{4, 5, 6}, 0)
	if err != nil {
		t.Fatalf("NextShort96() err = %v", err)
	}

	if !bytes.Equal(a[:9], b[:9]) {
		t.Fatalf("time/sequence bytes differ: %x vs %x", a[:9], b[:9])
	}
	if bytes.Equal(a[9:], b[9:]) {
		t.Fatalf("discriminator bytes equal: %x", a[9:])
	}
}

func TestNextShort96InvalidEpoch(t *testing.T) {
	gen := NewGenerator(&fakeClock{tick: 1 << 20})

	if _, err := gen.NextShort96([3]byte{}, 1<<40); !errors.Is(err, ErrInvalidEpoch) {
		t.Fatalf("expected ErrInvalidEpoch for future epoch, got %v", err)
	}
	if _, err := gen.NextShort96([3]byte{}, -1); !errors.Is(err, ErrInvalidEpoch) {
		t.Fatalf("expected ErrInvalidEpoch for negative epoch, got %v", err)
	}
}

func TestNextShort96CounterExhausted(t *testing.T) {
	const tick = int64(1 << 30)
	gen := NewGenerator(&fakeClock{tick: tick})
	gen.regs[shapeShort96] = register{tick: tick >> coarseShift, seq: short96SeqMax}

	_, err := gen.NextShort96([3]byte{1, 2, 3}, 0)
	if !errors.Is(err, ErrCounterExhausted) {
		t.Fatalf("expected ErrCounterExhausted, got %v", err)
	}
}

func TestNextShort64Batch(t *testing.T) {
	gen := NewGenerator(&fakeClock{tick: 1 << 30})

	seen := make(map[[8]byte]bool, 10_000)
	for i := 0; i < 10_000; i++ {
		id, err := gen.NextShort64(0)
		if err != nil {
			t.Fatalf("NextShort64() err = %v on call %d", err, i)
		}
		if seen[id] {
			t.Fatalf("duplicate id on call %d: %x", i, id)
		}
		seen[id] = true
	}
}

func TestNextShort64TimeFieldOverflow(t *testing.T) {
	gen := NewGenerator(&fakeClock{tick: 1 << 56})

	_, err := gen.NextShort64(0)
	if !errors.Is(err, ErrInvalidEpoch) {
		t.Fatalf("expected ErrInvalidEpoch, got %v", err)
	}
}

func TestClockErrorPropagates(t *testing.T) {
	gen := NewGenerator(failClock{})

	if _, err := gen.UUIDv1([6]byte{}); !errors.Is(err, ErrClock) {
		t.Fatalf("UUIDv1: expected ErrClock, got %v", err)
	}
	if _, err := gen.NextShort128([4]byte{}); !errors.Is(err, ErrClock) {
		t.Fatalf("NextShort128: expected ErrClock, got %v", err)
	}
	if _, err := gen.NextShort96([3]byte{}, 0); !errors.Is(err, ErrClock) {
		t.Fatalf("NextShort96: expected ErrClock, got %v", err)
	}
	if _, err := gen.NextShort64(0); !errors.Is(err, ErrClock) {
		t.Fatalf("NextShort64: expected ErrClock, got %v", err)
	}
}

func TestGeneratorConcurrentDistinct(t *testing.T) {
	gen := NewGenerator(nil)

	const workers = 8
	const perWorker = 500

	var mu sync.Mutex
	seen := make(map[[16]byte]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, err := gen.UUIDv1([6]byte{1, 2, 3, 4, 5, 6})
				if err != nil {
					t.Errorf("UUIDv1() err = %v", err)
					return
				}
				mu.Lock()
				if seen[id] {
					t.Errorf("duplicate id: %x", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

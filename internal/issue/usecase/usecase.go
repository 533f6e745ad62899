package usecase

import (
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/hjiayz/shortid/internal/issue/entity"
	"github.com/hjiayz/shortid/internal/pkg/pkgerror"
	"github.com/hjiayz/shortid/internal/pkg/pkguid"
)

type Store interface {
	AddIssued(ctx context.Context, shape entity.Shape, n int64) error
	Tallies(ctx context.Context) ([]entity.ShapeTally, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.IssueEvent) error
}

// ByteID is the identifier generator surface the usecase needs. It
// matches pkguid.Generator but stays an interface so tests can swap in
// a deterministic fake.
type ByteID interface {
	UUIDv1(node [6]byte) ([16]byte, error)
	NextShort128(node [4]byte) ([16]byte, error)
	NextShort96(node [3]byte, epoch int64) ([12]byte, error)
	NextShort64(epoch int64) ([8]byte, error)
}

type Clock interface {
	Now() time.Time
}

type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

type Dependency struct {
	Store    Store
	Events   EventPublisher
	Runner   Runner
	Clock    Clock
	Bytes    ByteID
	Numbers  pkguid.NumberID
	ID       pkguid.StringID
	Node     [6]byte
	Epoch    int64
	MaxCount int64
	RootCtx  context.Context
}

// Usecase serves identifier issuance. It holds the generator handle;
// nothing below this layer keeps ambient state.
type Usecase struct {
	store    Store
	events   EventPublisher
	runner   Runner
	clock    Clock
	bytes    ByteID
	numbers  pkguid.NumberID
	id       pkguid.StringID
	node     [6]byte
	epoch    int64
	maxCount int64
	rootCtx  context.Context
}

const defaultMaxCount = 1000

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	maxCount := dep.MaxCount
	if maxCount < 1 {
		maxCount = defaultMaxCount
	}

	return &Usecase{
		store:    dep.Store,
		events:   dep.Events,
		runner:   dep.Runner,
		clock:    clock,
		bytes:    dep.Bytes,
		numbers:  dep.Numbers,
		id:       dep.ID,
		node:     dep.Node,
		epoch:    dep.Epoch,
		maxCount: maxCount,
		rootCtx:  root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Issue generates count identifiers of the requested shape and returns
// them as raw byte sequences. Formatting is the caller's concern.
func (u *Usecase) Issue(ctx context.Context, shape entity.Shape, count int64) (IssueResult, error) {
	if u.bytes == nil {
		return IssueResult{}, pkgerror.NewServer(errors.New("missing generator dependency"))
	}

	if count < 1 || count > u.maxCount {
		return IssueResult{}, pkgerror.NewInvalidInput(errors.New("count out of range"))
	}

	ids := make([][]byte, 0, count)
	for i := int64(0); i < count; i++ {
		id, err := u.generate(shape)
		if err != nil {
			return IssueResult{}, err
		}
		ids = append(ids, id)
	}

	u.publishIssued(ctx, shape, count)

	return IssueResult{Shape: shape, IDs: ids}, nil
}

// Tallies reports how many identifiers were issued per shape.
func (u *Usecase) Tallies(ctx context.Context) (TalliesResult, error) {
	if u.store == nil {
		return TalliesResult{}, pkgerror.NewServer(errors.New("missing store dependency"))
	}

	tallies, err := u.store.Tallies(ctx)
	if err != nil {
		return TalliesResult{}, normalizeErr(err)
	}

	return TalliesResult{Tallies: tallies}, nil
}

func (u *Usecase) generate(shape entity.Shape) ([]byte, error) {
	switch shape {
	case entity.ShapeUUIDv1:
		id, err := u.bytes.UUIDv1(u.node)
		if err != nil {
			return nil, mapGenerateErr(err)
		}
		return id[:], nil
	case entity.ShapeShort128:
		id, err := u.bytes.NextShort128([4]byte(u.node[:4]))
		if err != nil {
			return nil, mapGenerateErr(err)
		}
		return id[:], nil
	case entity.ShapeShort96:
		id, err := u.bytes.NextShort96([3]byte(u.node[:3]), u.epoch)
		if err != nil {
			return nil, mapGenerateErr(err)
		}
		return id[:], nil
	case entity.ShapeShort64:
		id, err := u.bytes.NextShort64(u.epoch)
		if err != nil {
			return nil, mapGenerateErr(err)
		}
		return id[:], nil
	case entity.ShapeSnowflake:
		if u.numbers == nil {
			return nil, pkgerror.NewServer(errors.New("missing snowflake dependency"))
		}
		id := make([]byte, 8)
		binary.BigEndian.PutUint64(id, uint64(u.numbers.Generate()))
		return id, nil
	default:
		return nil, pkgerror.NewInvalidInput(errors.New("unknown shape"))
	}
}

// publishIssued hands the event off the request path; the tally is
// best effort and must not delay or fail the issuance itself.
func (u *Usecase) publishIssued(ctx context.Context, shape entity.Shape, count int64) {
	if u.events == nil {
		return
	}

	event := entity.IssueEvent{
		Shape:    shape,
		Count:    count,
		IssuedAt: u.clock.Now().Unix(),
	}
	if u.id != nil {
		event.EventID = u.id.Generate()
	}

	if u.runner == nil {
		if err := u.events.Publish(ctx, event); err != nil {
			slog.WarnContext(ctx, "failed to publish issue event", "shape", shape, "event_id", event.EventID, "error", err)
		}
		return
	}

	u.runner.Go(u.rootCtx, func(ctx context.Context) error {
		if err := u.events.Publish(ctx, event); err != nil {
			slog.WarnContext(ctx, "failed to publish issue event", "shape", shape, "event_id", event.EventID, "error", err)
		}
		return nil
	})
}

func mapGenerateErr(err error) error {
	switch {
	case errors.Is(err, pkguid.ErrCounterExhausted):
		return pkgerror.NewBusiness("identifier space exhausted for this tick, retry", pkgerror.CodeTimeout)
	case errors.Is(err, pkguid.ErrInvalidEpoch):
		return pkgerror.NewInvalidInput(err)
	default:
		return pkgerror.NewServer(err)
	}
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}

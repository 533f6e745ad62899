package issue

import (
	"context"
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/hjiayz/shortid/internal/issue/event"
	"github.com/hjiayz/shortid/internal/issue/inbound"
	"github.com/hjiayz/shortid/internal/issue/store"
	"github.com/hjiayz/shortid/internal/issue/usecase"
	"github.com/hjiayz/shortid/internal/pkg/pkgconfig"
	"github.com/hjiayz/shortid/internal/pkg/pkgrouter"
	"github.com/hjiayz/shortid/internal/pkg/pkgroutine"
	"github.com/hjiayz/shortid/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
	Bytes     *pkguid.Generator
	Numbers   pkguid.NumberID
}

func New(dep Dependency) (func(context.Context) error, error) {
	storage := store.NewInMemoryStore()
	bus := event.NewBus(512)
	consumer := event.NewTallyConsumer(bus, event.TallyRecorder{Store: storage}, event.ConsumerConfig{
		Workers:     4,
		MaxRetries:  3,
		BaseBackoff: 200 * time.Millisecond,
	})
	consumer.Start()

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}
	if dep.Bytes == nil {
		dep.Bytes = pkguid.NewGenerator(nil)
	}

	var epoch, maxCount int64
	if dep.Config != nil {
		epoch = dep.Config.GetInt("id.epoch")
		maxCount = dep.Config.GetInt("modules.issue.max_count")
	}

	uc := usecase.New(usecase.Dependency{
		Store:    storage,
		Events:   bus,
		Runner:   dep.Goroutine,
		Clock:    nil,
		Bytes:    dep.Bytes,
		Numbers:  dep.Numbers,
		ID:       dep.ID,
		Node:     nodeID(dep.Config),
		Epoch:    epoch,
		MaxCount: maxCount,
		RootCtx:  dep.Context,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return consumer.Stop, nil
}

// nodeID reads the configured discriminator (base64, 6 bytes,
// conventionally a MAC address) or falls back to a random MAC-like
// value for this process.
func nodeID(cfg pkgconfig.Config) [6]byte {
	var node [6]byte

	if cfg != nil {
		if b := cfg.GetBinary("id.node"); len(b) == len(node) {
			copy(node[:], b)
			return node
		}
	}

	if _, err := rand.Read(node[:]); err != nil {
		slog.Warn("failed to draw random node discriminator", "error", err)
		return node
	}

	slog.Info("id.node not configured, using a random node discriminator")
	return node
}

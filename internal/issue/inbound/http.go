package inbound

import (
	"context"

	"github.com/hjiayz/shortid/internal/issue/entity"
	"github.com/hjiayz/shortid/internal/issue/usecase"
	"github.com/hjiayz/shortid/internal/pkg/pkgrouter"
)

type uc interface {
	Issue(ctx context.Context, shape entity.Shape, count int64) (usecase.IssueResult, error)
	Tallies(ctx context.Context) (usecase.TalliesResult, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/ids", end.Issue) // ?shape=&count=
	r.GET("/ids/tallies", end.Tallies)
}

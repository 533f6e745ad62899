package inbound

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/hjiayz/shortid/internal/issue/entity"
	"github.com/hjiayz/shortid/internal/pkg/pkgerror"
)

type HTTPEndpoint struct {
	uc uc
}

// Issue hands out identifiers. The usecase returns raw byte sequences;
// hex encoding happens here, at the formatting edge.
func (h *HTTPEndpoint) Issue(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()

	shape, err := parseShape(query.Get("shape"))
	if err != nil {
		return nil, err
	}

	count, err := parseCount(query.Get("count"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Issue(ctx, shape, count)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.IDs))
	for _, id := range result.IDs {
		ids = append(ids, hex.EncodeToString(id))
	}

	return IssueResponse{Shape: string(result.Shape), IDs: ids}, nil
}

func (h *HTTPEndpoint) Tallies(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Tallies(ctx)
	if err != nil {
		return nil, err
	}

	tallies := make([]Tally, 0, len(result.Tallies))
	for _, tally := range result.Tallies {
		tallies = append(tallies, Tally{
			Shape:  string(tally.Shape),
			Issued: tally.Issued,
		})
	}

	return TalliesResponse{Tallies: tallies}, nil
}

func parseShape(raw string) (entity.Shape, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", pkgerror.NewInvalidInput(errors.New("shape is required"))
	}

	shape := entity.Shape(strings.ToUpper(value))
	for _, known := range entity.Shapes() {
		if shape == known {
			return shape, nil
		}
	}

	return "", pkgerror.NewInvalidInput(errors.New("unknown shape"))
}

func parseCount(raw string) (int64, error) {
	if raw == "" {
		return 1, nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 1 {
		return 0, pkgerror.NewInvalidInput(errors.New("invalid count"))
	}

	return value, nil
}

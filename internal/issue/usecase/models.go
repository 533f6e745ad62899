package usecase

import (
	"github.com/hjiayz/shortid/internal/issue/entity"
)

type IssueResult struct {
	Shape entity.Shape
	IDs   [][]byte
}

type TalliesResult struct {
	Tallies []entity.ShapeTally
}

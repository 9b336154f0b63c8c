package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elaraai/east/ir"
	"github.com/elaraai/east/types"
)

func TestVisit_Block(t *testing.T) {
	assert := assert.New(t)
	var visited []ir.Node
	block := ir.Seq(ir.Int(3), ir.Int(1), ir.Int(2))
	ir.Visit(block, func(n ir.Node) { visited = append(visited, n) })
	assert.Len(visited, 3)
}

func TestVisit_If(t *testing.T) {
	assert := assert.New(t)
	node := &ir.If{
		Branches: []ir.IfBranch{{Predicate: ir.Bool(true), Body: ir.Int(1)}},
		Else:     ir.Int(0),
	}
	count := 0
	ir.Visit(node, func(ir.Node) { count++ })
	assert.Equal(3, count)
}

func TestVisit_Match(t *testing.T) {
	assert := assert.New(t)
	vt := types.NewVariant(types.Case{Name: "a", Type: types.Integer}, types.Case{Name: "b", Type: types.String})
	node := &ir.Match{
		Scrutinee: ir.Ref("x"),
		Arms: []ir.MatchArm{
			{CaseName: "a", BindName: "v", Body: ir.Int(1)},
			{CaseName: "b", BindName: "v", Body: ir.Int(2)},
		},
	}
	_ = vt
	count := 0
	ir.Visit(node, func(ir.Node) { count++ })
	assert.Equal(3, count) // scrutinee + two arm bodies
}

func TestVisit_Leaf(t *testing.T) {
	assert := assert.New(t)
	count := 0
	ir.Visit(ir.Ref("x"), func(ir.Node) { count++ })
	assert.Equal(0, count)
}

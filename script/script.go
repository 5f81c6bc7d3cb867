// Package script is a small Lua DSL for describing a node graph
// declaratively — useful on embedded targets that want to swap a
// compositing recipe without recompiling. No teacher file wires Lua
// directly, but gopher-lua is a direct dependency in the teacher's
// go.mod; this package is its home.
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/ainyan03/fleximg-go"
)

// Graph is the node registry a script builds up by name, so later
// `connect` calls can refer to nodes created earlier in the script.
type Graph struct {
	nodes map[string]fleximg.Node
	root  string
}

// Node returns the named node, or nil if the script never created it.
func (g *Graph) Node(name string) fleximg.Node { return g.nodes[name] }

// Root returns the node passed to the script's `render(name)` call.
func (g *Graph) Root() fleximg.Node {
	if g.root == "" {
		return nil
	}
	return g.nodes[g.root]
}

// Build parses and runs a Lua script, returning the graph it
// constructed. The script calls package-level constructor functions
// (`source`, `brightness`, `grayscale`, `alpha`, `hblur`, `vblur`,
// `composite`, `matte`, `affine`, `distributor`), each taking a unique
// name string plus constructor arguments, and wires them with
// `connect(srcName, dstName[, port])`. `render(name)` marks the node
// this graph's Root() call returns.
func Build(src string) (*Graph, error) {
	g := &Graph{nodes: make(map[string]fleximg.Node)}
	L := lua.NewState()
	defer L.Close()

	register := func(name string, fn lua.LGFunction) { L.SetGlobal(name, L.NewFunction(fn)) }

	register("source", func(L *lua.LState) int {
		name := L.CheckString(1)
		g.nodes[name] = fleximg.NewSourceNode()
		return 0
	})
	register("brightness", func(L *lua.LState) int {
		name := L.CheckString(1)
		delta := L.CheckInt(2)
		g.nodes[name] = fleximg.NewBrightnessNode(delta)
		return 0
	})
	register("grayscale", func(L *lua.LState) int {
		name := L.CheckString(1)
		g.nodes[name] = fleximg.NewGrayscaleNode()
		return 0
	})
	register("alpha", func(L *lua.LState) int {
		name := L.CheckString(1)
		factor := L.CheckNumber(2)
		g.nodes[name] = fleximg.NewAlphaNode(float64(factor))
		return 0
	})
	register("hblur", func(L *lua.LState) int {
		name := L.CheckString(1)
		radius := L.CheckInt(2)
		g.nodes[name] = fleximg.NewHorizontalBlurNode(radius)
		return 0
	})
	register("vblur", func(L *lua.LState) int {
		name := L.CheckString(1)
		radius := L.CheckInt(2)
		g.nodes[name] = fleximg.NewVerticalBlurNode(radius)
		return 0
	})
	register("affine", func(L *lua.LState) int {
		name := L.CheckString(1)
		g.nodes[name] = fleximg.NewAffineNode()
		return 0
	})
	register("composite", func(L *lua.LState) int {
		name := L.CheckString(1)
		n := L.CheckInt(2)
		g.nodes[name] = fleximg.NewCompositeNode(n)
		return 0
	})
	register("matte", func(L *lua.LState) int {
		name := L.CheckString(1)
		g.nodes[name] = fleximg.NewMatteNode()
		return 0
	})
	register("distributor", func(L *lua.LState) int {
		name := L.CheckString(1)
		g.nodes[name] = fleximg.NewDistributorNode()
		return 0
	})
	register("connect", func(L *lua.LState) int {
		srcName := L.CheckString(1)
		dstName := L.CheckString(2)
		port := 0
		if L.GetTop() >= 3 {
			port = L.CheckInt(3)
		}
		src, dst, err := g.lookupEdge(srcName, dstName)
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		if err := fleximg.ConnectTo(src, dst, port); err != nil {
			L.RaiseError("connect %s -> %s: %v", srcName, dstName, err)
		}
		return 0
	})
	register("render", func(L *lua.LState) int {
		g.root = L.CheckString(1)
		return 0
	})

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return g, nil
}

func (g *Graph) lookupEdge(srcName, dstName string) (fleximg.Node, fleximg.Wireable, error) {
	src, ok := g.nodes[srcName]
	if !ok {
		return nil, nil, fmt.Errorf("script: unknown node %q", srcName)
	}
	dstNode, ok := g.nodes[dstName]
	if !ok {
		return nil, nil, fmt.Errorf("script: unknown node %q", dstName)
	}
	dst, ok := dstNode.(fleximg.Wireable)
	if !ok {
		return nil, nil, fmt.Errorf("script: node %q has no input ports", dstName)
	}
	return src, dst, nil
}

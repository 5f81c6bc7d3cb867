package script

import "testing"

func TestBuildWiresSimpleChain(t *testing.T) {
	g, err := Build(`
		source("img")
		brightness("bright", 20)
		connect("img", "bright")
		render("bright")
	`)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Root() == nil {
		t.Fatal("Root() is nil after render(\"bright\")")
	}
	if g.Node("img") == nil {
		t.Error("Node(\"img\") is nil, want the constructed source")
	}
}

func TestBuildRejectsUnknownNodeInConnect(t *testing.T) {
	_, err := Build(`
		source("img")
		connect("img", "missing")
	`)
	if err == nil {
		t.Error("Build with a connect() referencing an unknown node succeeded, want error")
	}
}

func TestBuildCompositeWithMultiplePorts(t *testing.T) {
	g, err := Build(`
		source("a")
		source("b")
		composite("c", 2)
		connect("a", "c", 0)
		connect("b", "c", 1)
		render("c")
	`)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Root() != g.Node("c") {
		t.Error("Root() does not match the node named in render()")
	}
}

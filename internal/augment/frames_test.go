package augment

import (
	"math"
	"strings"
	"testing"

	"golang.org/x/net/html/atom"
)

func newTestFrame(id string) *Frame {
	return &Frame{ID: id, node: newElement(atom.Iframe, attr("id", id))}
}

func height(v float64) *float64 { return &v }

func TestDispatchResizesOnlyMatchingFrame(t *testing.T) {
	reg := NewFrameRegistry()
	x, y := newTestFrame("X"), newTestFrame("Y")
	reg.Register(x)
	reg.Register(y)

	if !reg.Dispatch(Message{Type: "resize", ID: "X", Height: height(240)}) {
		t.Fatal("expected resize of X to be applied")
	}
	if got := x.Height(); got != "240px" {
		t.Errorf("X height = %q, want 240px", got)
	}
	if got := y.Height(); got != "" {
		t.Errorf("Y height = %q, want unset", got)
	}

	if !reg.Dispatch(Message{Type: "resize", ID: "X", Height: height(120.5)}) {
		t.Fatal("expected second resize of X to be applied")
	}
	if got := x.Height(); got != "120.5px" {
		t.Errorf("X height after second resize = %q, want 120.5px", got)
	}
	if got := styleAttr(x.node); strings.Count(got, "height") != 1 {
		t.Errorf("style %q should hold a single height declaration", got)
	}
}

func TestDispatchIgnoresMalformed(t *testing.T) {
	reg := NewFrameRegistry()
	x := newTestFrame("X")
	reg.Register(x)

	msgs := []Message{
		{Type: "scroll", ID: "X", Height: height(100)},
		{Type: "", ID: "X", Height: height(100)},
		{Type: "resize", ID: "Z", Height: height(100)},
		{Type: "resize", ID: "X"},
		{Type: "resize", ID: "X", Height: height(-1)},
	}
	for _, m := range msgs {
		if reg.Dispatch(m) {
			t.Errorf("Dispatch(%+v) should be ignored", m)
		}
	}
	if got := x.Height(); got != "" {
		t.Errorf("X height = %q, want unset", got)
	}
}

func TestDispatchJSON(t *testing.T) {
	reg := NewFrameRegistry()
	x := newTestFrame("X")
	reg.Register(x)

	if !reg.DispatchJSON([]byte(`{"type":"resize","id":"X","height":240}`)) {
		t.Fatal("expected JSON resize to be applied")
	}
	if got := x.Height(); got != "240px" {
		t.Errorf("height = %q, want 240px", got)
	}

	for _, raw := range []string{
		`not json`,
		`{"type":"resize","id":"X","height":"300"}`,
		`{"type":"resize","id":7,"height":300}`,
		`[]`,
	} {
		if reg.DispatchJSON([]byte(raw)) {
			t.Errorf("DispatchJSON(%s) should be ignored", raw)
		}
	}
	if got := x.Height(); got != "240px" {
		t.Errorf("height changed to %q by malformed messages", got)
	}
}

func TestSetHeightKeepsOtherStyles(t *testing.T) {
	f := newTestFrame("X")
	setAttr(f.node, "style", "width: 100%; height: 10px")
	f.setHeight(50)
	if got := styleAttr(f.node); got != "width: 100%; height: 50px" {
		t.Errorf("style = %q", got)
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := NewFrameRegistry()
	reg.Register(newTestFrame("X"))
	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}
	reg.Remove("X")
	if _, ok := reg.Lookup("X"); ok {
		t.Error("X still registered after Remove")
	}
	if reg.Dispatch(Message{Type: "resize", ID: "X", Height: height(1)}) {
		t.Error("removed frame should not receive messages")
	}
}

func TestResizeScriptRejectsWhatDispatchRejects(t *testing.T) {
	reg := NewFrameRegistry()
	reg.Register(newTestFrame("X"))
	for _, h := range []float64{-1, math.Inf(1), math.NaN()} {
		if reg.Dispatch(Message{Type: MessageTypeResize, ID: "X", Height: height(h)}) {
			t.Errorf("Dispatch accepted height %v", h)
		}
	}
	for _, guard := range []string{
		`data.type !== "resize"`,
		`typeof data.id !== "string"`,
		`typeof data.height !== "number"`,
		`!isFinite(data.height)`,
		`data.height < 0`,
		`hasOwnProperty.call(frames, data.id)`,
	} {
		if !strings.Contains(resizeScript, guard) {
			t.Errorf("resize script is missing guard %s", guard)
		}
	}
}

package augment

import (
	_ "embed"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// resizeScript is the page-side dispatcher: one message listener that looks
// frames up by their data-frame-id. FrameRegistry.Dispatch is its reference
// model; both must accept and reject the same messages.
//
//go:embed resize.js
var resizeScript string

// MessageTypeResize is the only message type frames send.
const MessageTypeResize = "resize"

// Message is a cross-frame message posted by an embedded explorer view.
type Message struct {
	Type   string   `json:"type"`
	ID     string   `json:"id"`
	Height *float64 `json:"height"`
}

// Frame is an iframe created in place of a marked element.
type Frame struct {
	ID       string
	Src      string
	Category string
	node     *html.Node
}

// Height returns the frame's current height declaration, or "" if none was
// set.
func (f *Frame) Height() string {
	for _, decl := range strings.Split(styleAttr(f.node), ";") {
		name, value, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(name) == "height" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func (f *Frame) setHeight(px float64) {
	value := strconv.FormatFloat(px, 'f', -1, 64) + "px"
	var decls []string
	for _, decl := range strings.Split(styleAttr(f.node), ";") {
		name, _, _ := strings.Cut(decl, ":")
		if strings.TrimSpace(decl) == "" || strings.TrimSpace(name) == "height" {
			continue
		}
		decls = append(decls, strings.TrimSpace(decl))
	}
	decls = append(decls, "height: "+value)
	setAttr(f.node, "style", strings.Join(decls, "; "))
}

// FrameRegistry maps frame ids to frames so that a single dispatcher can
// route resize messages. One registry belongs to one page; it is not safe for
// concurrent use.
type FrameRegistry struct {
	frames map[string]*Frame
}

// NewFrameRegistry returns an empty registry.
func NewFrameRegistry() *FrameRegistry {
	return &FrameRegistry{frames: make(map[string]*Frame)}
}

// Register adds f, replacing any frame with the same id.
func (r *FrameRegistry) Register(f *Frame) {
	r.frames[f.ID] = f
}

// Remove forgets the frame with id.
func (r *FrameRegistry) Remove(id string) {
	delete(r.frames, id)
}

// Lookup returns the frame with id.
func (r *FrameRegistry) Lookup(id string) (*Frame, bool) {
	f, ok := r.frames[id]
	return f, ok
}

// Len returns the number of registered frames.
func (r *FrameRegistry) Len() int {
	return len(r.frames)
}

// Dispatch applies msg to the frame it names and reports whether a frame
// was resized. It is the reference model for resize.js: messages of another
// type, for unknown ids, or whose height is missing, non-finite or negative
// are ignored.
func (r *FrameRegistry) Dispatch(msg Message) bool {
	if msg.Type != MessageTypeResize || msg.Height == nil {
		return false
	}
	h := *msg.Height
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return false
	}
	f, ok := r.frames[msg.ID]
	if !ok {
		return false
	}
	f.setHeight(h)
	return true
}

// DispatchJSON decodes a raw message and dispatches it. Undecodable input
// is ignored.
func (r *FrameRegistry) DispatchJSON(data []byte) bool {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return false
	}
	return r.Dispatch(msg)
}

func styleAttr(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "style" {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

package codec

import (
	"strings"

	"github.com/goliatone/go-splitjson/pkg/model"
)

// Decode rebuilds the document rooted at root from a flat mapping of
// composite paths to submitted text. Only keys that start with root followed
// by the separator take part; form itself is never modified.
//
// Every entry still pending in a private working copy starts a bottom-up
// resolution: its parent path is assembled from all pending entries below
// that parent, which are consumed, and the assembled node moves one level up
// until the level below root is reached. Whether a level is an Array or an
// Object is inferred from its first segment: digits mean Array. The first
// resolved branch also decides the type of the result; later branches are
// appended to an Array result or set on an Object result. With no branches
// the result is an empty Object.
func (c *Codec) Decode(root string, form model.Form) model.Value {
	wc := newWorkingCopy(form, root+c.sep)

	var (
		result  model.Value
		started bool
	)
	for i := range wc.entries {
		if !wc.live[i] {
			continue
		}
		entry := wc.consume(i)
		key, branch := c.resolve(root, wc, entry.Key, leafNode(entry.Value))
		value := branch.value()

		if !started {
			if IsIndex(key) {
				result = model.Array()
			} else {
				result = model.Object()
			}
			started = true
		}
		if result.Kind() == model.KindArray {
			result.Append(value)
			continue
		}
		if existing, ok := result.Get(key); ok && existing.IsContainer() && !value.IsContainer() {
			continue
		}
		result.Set(key, value)
	}
	if !started {
		return model.Object()
	}
	return result
}

// resolve folds child, found at path, into its parent together with every
// pending entry below that parent, then repeats one level up. It returns the
// segment directly below root and the assembled branch.
func (c *Codec) resolve(root string, wc *workingCopy, path string, child *node) (string, *node) {
	parent, last, ok := c.SplitLast(path)
	if !ok || parent == root || !strings.HasPrefix(parent, root+c.sep) {
		return strings.TrimPrefix(path, root+c.sep), child
	}

	prefix := parent + c.sep
	assembled := &node{}
	assembled.put(last, child)
	for _, sibling := range wc.take(prefix) {
		rel := strings.TrimPrefix(sibling.Key, prefix)
		assembled.insert(strings.Split(rel, c.sep), sibling.Value)
	}
	return c.resolve(root, wc, parent, assembled)
}

// workingCopy tracks which entries of the submitted form are still pending.
type workingCopy struct {
	entries []model.FormEntry
	live    []bool
}

func newWorkingCopy(form model.Form, prefix string) *workingCopy {
	wc := &workingCopy{}
	for _, e := range form.Entries() {
		if !strings.HasPrefix(e.Key, prefix) {
			continue
		}
		wc.entries = append(wc.entries, e)
		wc.live = append(wc.live, true)
	}
	return wc
}

func (wc *workingCopy) consume(i int) model.FormEntry {
	wc.live[i] = false
	return wc.entries[i]
}

// take consumes and returns, in order, every pending entry below prefix.
func (wc *workingCopy) take(prefix string) []model.FormEntry {
	var out []model.FormEntry
	for i, e := range wc.entries {
		if wc.live[i] && strings.HasPrefix(e.Key, prefix) {
			out = append(out, wc.consume(i))
		}
	}
	return out
}

// node is an intermediate tree whose container type is only decided once
// all of its children are known.
type node struct {
	text   string
	isLeaf bool

	keys     []string
	children map[string]*node
}

func leafNode(text string) *node {
	return &node{text: text, isLeaf: true}
}

func (n *node) child(key string) *node {
	if n.children == nil {
		n.children = make(map[string]*node)
	}
	if existing, ok := n.children[key]; ok {
		return existing
	}
	created := &node{}
	n.children[key] = created
	n.keys = append(n.keys, key)
	return created
}

func (n *node) put(key string, child *node) {
	if n.children == nil {
		n.children = make(map[string]*node)
	}
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

func (n *node) insert(segments []string, text string) {
	if len(segments) == 0 {
		n.text = text
		n.isLeaf = true
		return
	}
	n.child(segments[0]).insert(segments[1:], text)
}

// value converts the node into a model.Value. A node holding children is a
// container even if a leaf was also submitted at its path.
func (n *node) value() model.Value {
	if len(n.keys) == 0 {
		return model.String(n.text)
	}
	if IsIndex(n.keys[0]) {
		arr := model.Array()
		for _, key := range n.keys {
			arr.Append(n.children[key].value())
		}
		return arr
	}
	obj := model.Object()
	for _, key := range n.keys {
		obj.Set(key, n.children[key].value())
	}
	return obj
}

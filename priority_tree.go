package http2

// defaultWeight is the byte stored for a stream that was never given an
// explicit PRIORITY frame: RFC 7540 section 5.3.5 default weight is 16,
// stored here as weight-1 per the wire encoding.
const defaultWeight byte = 15

// priorityNode is one entry of the priority tree arena, addressed by
// stream id rather than by pointer. Re-architected from
// dgrr-http2/priority.go's bare (stream, weight) pair -- that type
// carries no tree structure at all, so the dependency tree itself is
// built from scratch here, keyed by stream id as spec.md section 9
// directs rather than with raw Go pointers, so the tree can be
// snapshotted/inspected without chasing links.
type priorityNode struct {
	streamID    uint32
	weight      byte
	parent      uint32
	firstChild  uint32
	nextSibling uint32
}

// PriorityTree is the RFC 7540 section 5.3 stream dependency tree. The
// root is a sentinel node with stream id 0; every stream that has ever
// had a PRIORITY frame, a HEADERS frame carrying priority, or a default
// priority registered gets a node.
type PriorityTree struct {
	nodes map[uint32]*priorityNode
}

// NewPriorityTree returns a tree containing only the root sentinel.
func NewPriorityTree() *PriorityTree {
	t := &PriorityTree{nodes: make(map[uint32]*priorityNode)}
	t.nodes[0] = &priorityNode{streamID: 0}
	return t
}

// ensure returns the node for id, creating it as a new child of the root
// with the default weight if absent.
func (t *PriorityTree) ensure(id uint32) *priorityNode {
	if n, ok := t.nodes[id]; ok {
		return n
	}
	n := &priorityNode{streamID: id, weight: defaultWeight}
	t.nodes[id] = n
	t.linkChild(0, id)
	return n
}

// linkChild prepends child as the first child of parent. Callers must
// have already detached child from any previous parent.
func (t *PriorityTree) linkChild(parent, child uint32) {
	p := t.nodes[parent]
	cn := t.nodes[child]
	cn.parent = parent
	cn.nextSibling = p.firstChild
	p.firstChild = child
}

// detach removes child from its current parent's child list without
// altering child's own subtree.
func (t *PriorityTree) detach(child uint32) {
	cn := t.nodes[child]
	p, ok := t.nodes[cn.parent]
	if !ok {
		return
	}
	if p.firstChild == child {
		p.firstChild = cn.nextSibling
		cn.nextSibling = 0
		return
	}
	for sib := p.firstChild; sib != 0; {
		sn := t.nodes[sib]
		if sn.nextSibling == child {
			sn.nextSibling = cn.nextSibling
			cn.nextSibling = 0
			return
		}
		sib = sn.nextSibling
	}
}

// children returns the ids of node's direct children, in list order.
func (t *PriorityTree) children(id uint32) []uint32 {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	var out []uint32
	for c := n.firstChild; c != 0; {
		out = append(out, c)
		c = t.nodes[c].nextSibling
	}
	return out
}

// Reparent applies a PRIORITY frame's semantics: stream is located or
// created, detached from its current parent, then attached under dep
// (also located or created, defaulting to the root if dep is not
// itself registered). If exclusive, stream becomes the sole child of
// dep and every former child of dep becomes a child of stream.
// Self-dependency is rejected; callers translate it into a stream-level
// RST_STREAM per spec.md section 5.
func (t *PriorityTree) Reparent(stream, dep uint32, exclusive bool, weight byte) error {
	if stream == dep {
		return NewStreamError(stream, ProtocolError, "stream cannot depend on itself")
	}

	t.ensure(dep)
	n := t.ensure(stream)

	t.detach(stream)

	var formerChildren []uint32
	if exclusive {
		formerChildren = t.children(dep)
	}

	t.linkChild(dep, stream)
	n.weight = weight

	for _, c := range formerChildren {
		if c == stream {
			continue
		}
		t.detach(c)
		t.linkChild(stream, c)
	}

	return nil
}

// Remove deletes stream's node, reparenting its children onto its
// former parent (RFC 7540 section 5.3.4). Must be called whenever a
// stream closes.
func (t *PriorityTree) Remove(stream uint32) {
	n, ok := t.nodes[stream]
	if !ok || stream == 0 {
		return
	}

	parent := n.parent
	for _, c := range t.children(stream) {
		t.detach(c)
		t.linkChild(parent, c)
	}
	t.detach(stream)
	delete(t.nodes, stream)
}

// Weight returns the wire weight byte (0..255, meaning weight 1..256)
// currently stored for stream, or the default if stream has no node.
func (t *PriorityTree) Weight(stream uint32) byte {
	if n, ok := t.nodes[stream]; ok {
		return n.weight
	}
	return defaultWeight
}

// Traverse performs a weighted depth-first walk of the tree rooted at
// id 0, visiting children highest-weight-first, and returns every
// stream id for which eligible reports true. A stream that is not
// eligible is still walked into (its children may be eligible even if
// it is not), matching RFC 7540 section 5.3's independence of priority
// from flow control. Used by SendWaittingFrameData to pick the order in
// which to drain queued outbound DATA.
func (t *PriorityTree) Traverse(eligible func(streamID uint32) bool) []uint32 {
	var out []uint32
	var walk func(id uint32)
	walk = func(id uint32) {
		kids := t.children(id)
		sortByWeightDesc(t, kids)
		for _, c := range kids {
			if eligible(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(0)
	return out
}

// sortByWeightDesc orders ids by their stored weight, heaviest first,
// stable on ties to preserve PRIORITY/HEADERS arrival order.
func sortByWeightDesc(t *PriorityTree, ids []uint32) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && t.Weight(ids[j-1]) < t.Weight(ids[j]); j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

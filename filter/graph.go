/*
NAME
  graph.go

DESCRIPTION
  graph.go implements the filter graph runtime (C6): a linear pipeline of
  Filters threaded together and pumped chunk by chunk, rebuilding the
  downstream portion of the chain whenever a format change propagates
  through it. Node identity is a stable, arena-allocated integer id rather
  than a raw pointer/back-pointer linked list, per the library's departure
  from the original's intrusive list design.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"github.com/pkg/errors"

	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

// NodeID identifies a node within a Graph's arena. The zero value is
// never a valid id (id 0 is reserved as the "no node" sentinel, matching
// the original's NULL-pointer convention).
type NodeID int

const noNode NodeID = 0

// state tracks the graph's overall position in the process/rebuild cycle,
// mirroring FilterGraph::get_state in the original.
type state int

const (
	stateEmpty state = iota
	stateProcessing
	stateRebuild
	stateDoneFlushing
)

// rebuildFlag tracks how urgently the chain downstream of a node needs to
// be rebuilt after its format changed.
type rebuildFlag int

const (
	noRebuild rebuildFlag = iota
	checkRebuild
	doRebuild
)

type node struct {
	id     NodeID
	filter Filter
	next   NodeID
	prev   NodeID
	spk    speaker.Layout // format this node currently produces.
}

// Graph is a linear filter pipeline (FilterChain is a Graph specialised
// to always keep its nodes contiguous front-to-back with no branching).
// It owns no filters beyond holding references to them: Clear, Destroy
// and Remove call each affected filter's Close but does not otherwise manage their
// lifetimes.
type Graph struct {
	nodes  map[NodeID]*node
	nextID NodeID
	first  NodeID
	last   NodeID

	state   state
	rebuild rebuildFlag

	input speaker.Layout // format fed into the first node.

	// pending holds chunks a rebuild drained from the downstream portion
	// of the chain but could not return from the ProcessChain call that
	// triggered the rebuild (which can return only one chunk). They are
	// delivered, oldest first, before any chunk produced by the rebuilt
	// chain -- the flush-before-rebuild invariant.
	pending []frame.Chunk

	// newStreamPending is set when a rebuild occurs and cleared on the
	// first chunk afterwards that actually makes it through the rebuilt
	// nodes, which may be several ProcessChain calls later if a rebuilt
	// node buffers before emitting again.
	newStreamPending bool
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[NodeID]*node), nextID: 1}
}

// next_id, per FilterChain::next_id: allocate a fresh, never-reused id.
func (g *Graph) allocID() NodeID {
	id := g.nextID
	g.nextID++
	return id
}

// AddBack appends f to the end of the chain and returns its node id.
func (g *Graph) AddBack(f Filter) NodeID {
	id := g.allocID()
	n := &node{id: id, filter: f, prev: g.last}
	g.nodes[id] = n
	if g.last != noNode {
		g.nodes[g.last].next = id
	} else {
		g.first = id
	}
	g.last = id
	return id
}

// AddFront prepends f to the start of the chain and returns its node id.
func (g *Graph) AddFront(f Filter) NodeID {
	id := g.allocID()
	n := &node{id: id, filter: f, next: g.first}
	g.nodes[id] = n
	if g.first != noNode {
		g.nodes[g.first].prev = id
	} else {
		g.last = id
	}
	g.first = id
	return id
}

// Remove unlinks and closes the node with the given id, splicing its
// neighbours together.
func (g *Graph) Remove(id NodeID) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	if n.prev != noNode {
		g.nodes[n.prev].next = n.next
	} else {
		g.first = n.next
	}
	if n.next != noNode {
		g.nodes[n.next].prev = n.prev
	} else {
		g.last = n.prev
	}
	n.filter.Close()
	delete(g.nodes, id)
}

// Clear removes and closes every node, leaving the graph empty but still
// usable (AddFront/AddBack work again immediately).
func (g *Graph) Clear() {
	for id := g.first; id != noNode; {
		next := g.nodes[id].next
		g.nodes[id].filter.Close()
		delete(g.nodes, id)
		id = next
	}
	g.first, g.last = noNode, noNode
	g.state = stateEmpty
}

// Destroy is Clear plus releasing the graph's own bookkeeping; a
// destroyed graph must not be used again.
func (g *Graph) Destroy() {
	g.Clear()
	g.nodes = nil
}

// buildChain opens every node from start onward against the format
// produced by its upstream neighbour (or g.input, for the first node),
// stopping and returning an error at the first node that refuses the
// format it is handed (a wrapped error value, not a dedicated type).
func (g *Graph) buildChain(start NodeID) error {
	upstream := g.input
	if n, ok := g.nodes[start]; ok && n.prev != noNode {
		upstream = g.nodes[n.prev].spk
	}
	for id := start; id != noNode; id = g.nodes[id].next {
		n := g.nodes[id]
		if !n.filter.CanOpen(upstream) {
			return errors.Errorf("filter graph: node %d cannot open format %s", id, upstream)
		}
		if err := n.filter.Open(upstream); err != nil {
			return errors.Wrapf(err, "filter graph: node %d open", id)
		}
		n.spk = n.filter.GetOutput()
		upstream = n.spk
	}
	return nil
}

// truncate drains every chunk buffered downstream of id before resetting
// those nodes for a rebuild, per §5's flush-before-rebuild invariant: a
// chunk flushed from a node is pushed through every node below it via
// the ordinary Process path, since a downstream node may itself buffer
// it rather than emit immediately. Sweeps id..end repeatedly until a
// full sweep drains nothing further, so a chunk buffered into a later
// node by this sweep still gets flushed out on the next one.
func (g *Graph) truncate(id NodeID) ([]frame.Chunk, error) {
	var drained []frame.Chunk
	for {
		progressed := false
		for cur := id; cur != noNode; cur = g.nodes[cur].next {
			chunk, haveChunk := g.nodes[cur].filter.Flush()
			if !haveChunk {
				continue
			}
			progressed = true
			for next := g.nodes[cur].next; next != noNode && haveChunk; next = g.nodes[next].next {
				var perr error
				chunk, haveChunk, perr = g.nodes[next].filter.Process(chunk)
				if perr != nil {
					return drained, errors.Wrapf(perr, "filter graph: flush through node %d", next)
				}
			}
			if haveChunk {
				drained = append(drained, chunk)
			}
		}
		if !progressed {
			break
		}
	}
	for cur := id; cur != noNode; cur = g.nodes[cur].next {
		g.nodes[cur].filter.Reset()
	}
	return drained, nil
}

// invalidate marks the chain for rebuild starting at id, draining and
// returning every chunk buffered downstream of id before the caller
// reopens those nodes against the new format.
func (g *Graph) invalidate(id NodeID) ([]frame.Chunk, error) {
	g.rebuild = doRebuild
	g.state = stateRebuild
	return g.truncate(id)
}

// rebuildNode reopens a single node against its upstream format, used
// when a node's own output format changed without requiring the whole
// downstream chain to be discarded (a sample-rate-preserving channel
// remap, for instance).
func (g *Graph) rebuildNode(id NodeID) error {
	n, ok := g.nodes[id]
	if !ok {
		return errors.Errorf("filter graph: unknown node %d", id)
	}
	upstream := g.input
	if n.prev != noNode {
		upstream = g.nodes[n.prev].spk
	}
	if err := n.filter.Open(upstream); err != nil {
		return errors.Wrapf(err, "filter graph: rebuild node %d", id)
	}
	n.spk = n.filter.GetOutput()
	return nil
}

// ProcessChain pumps one input chunk through every node in order,
// rebuilding downstream nodes on the fly when a node's output format
// changes mid-stream (process_chain, per the original). A rebuild drains
// everything buffered downstream of the changed node first (truncate);
// since a call can only return one chunk, drained chunks queue on
// g.pending. in is always processed in the same call that receives it
// (never dropped to make room for a queued chunk) -- its result is
// appended to g.pending and the oldest queued chunk is returned, so
// flush-before-rebuild ordering holds across calls, not just within the
// one that triggered the rebuild. NewStream is raised exactly once, on
// the first chunk that actually passes through the rebuilt nodes, even
// if that takes several more calls because those nodes keep buffering.
func (g *Graph) ProcessChain(in frame.Chunk) (out frame.Chunk, ok bool, err error) {
	if g.first == noNode {
		if len(g.pending) > 0 {
			g.pending = append(g.pending, in)
			out = g.pending[0]
			g.pending = g.pending[1:]
			return out, true, nil
		}
		return in, true, nil
	}
	g.state = stateProcessing

	cur := in
	haveChunk := true
	for id := g.first; id != noNode && haveChunk; id = g.nodes[id].next {
		n := g.nodes[id]
		prevSpk := n.spk
		cur, haveChunk, err = n.filter.Process(cur)
		if err != nil {
			return frame.Chunk{}, false, errors.Wrapf(err, "filter graph: node %d process", id)
		}
		if haveChunk {
			newSpk := n.filter.GetOutput()
			if !newSpk.Equal(prevSpk) {
				n.spk = newSpk
				if n.next != noNode {
					drained, derr := g.invalidate(n.next)
					if derr != nil {
						return frame.Chunk{}, false, derr
					}
					if err := g.buildChain(n.next); err != nil {
						return frame.Chunk{}, false, err
					}
					g.rebuild = noRebuild
					g.state = stateProcessing
					g.pending = append(g.pending, drained...)
					g.newStreamPending = true
				}
			}
		}
	}
	// drained chunks belong to the stream that just ended; the marker
	// belongs on the first chunk that actually makes it through the
	// rebuilt nodes, which is cur here whenever haveChunk holds -- even
	// across several calls, if the rebuilt nodes keep buffering.
	if haveChunk && g.newStreamPending {
		cur.NewStream = true
		g.newStreamPending = false
	}
	if len(g.pending) > 0 {
		if haveChunk {
			g.pending = append(g.pending, cur)
		}
		out = g.pending[0]
		g.pending = g.pending[1:]
		return out, true, nil
	}
	if !haveChunk {
		return frame.Chunk{}, false, nil
	}
	return cur, true, nil
}

// Flush drains every node's internal buffer in order, concatenation of
// Flush semantics being the caller's responsibility (each call returns at
// most one chunk, mirroring Filter.Flush itself). If a rebuild's new-
// stream marker is still unclaimed -- every ProcessChain call since the
// rebuild buffered without emitting -- it lands on whichever chunk this
// drains out first.
func (g *Graph) Flush() (out frame.Chunk, ok bool) {
	for id := g.last; id != noNode; id = g.nodes[id].prev {
		if c, ok := g.nodes[id].filter.Flush(); ok {
			if g.newStreamPending {
				c.NewStream = true
				g.newStreamPending = false
			}
			return c, true
		}
	}
	g.state = stateDoneFlushing
	return frame.Chunk{}, false
}

// Open sets the format fed into the first node and builds the whole
// chain against it.
func (g *Graph) Open(spk speaker.Layout) error {
	g.input = spk
	return g.buildChain(g.first)
}

// NewStream propagates a new-logical-stream reset to every node.
func (g *Graph) NewStream() {
	for id := g.first; id != noNode; id = g.nodes[id].next {
		g.nodes[id].filter.NewStream()
	}
}

// SPDX-License-Identifier: MIT
package graph

import "auragraph/internal/property"

// Connection is a directed edge from one node's output port either to
// another node's input port, or to a single automatable property on
// another node (making that property a-rate for as long as the
// connection lives). Exactly one of consumer or target is set.
type Connection struct {
	producer *Node
	consumer *Node
	target   *property.Property
	owner    *Node // the node target belongs to, for cycle checks

	enableMixing bool
}

// Connect links producer's output port to consumer's input port. When the
// two ports carry different channel counts, enableMixing selects between
// applying one of the twelve canonical mixing matrices (true) or the
// truncate-or-zero-pad fallback (false) — both paths run through
// resolveMixMatrix, which degrades to the fallback itself for uncanonical
// pairs, so enableMixing only matters for the pairs that have a canonical
// matrix.
func Connect(producer, consumer *Node, enableMixing bool) (*Connection, error) {
	if causesCycle(producer, consumer) {
		return nil, wrap("graph.Connect", newCycleError())
	}
	c := &Connection{producer: producer, consumer: consumer, enableMixing: enableMixing}
	consumer.inputConnections = append(consumer.inputConnections, c)
	return c, nil
}

// ConnectProperty links producer's output port to a property belonging to
// owner, making that property a-rate for the connection's lifetime. The
// property must support automation (numeric scalar types only); anything
// else reports CannotConnectToProperty.
func ConnectProperty(producer *Node, owner *Node, target *property.Property) (*Connection, error) {
	if !target.SupportsAutomation() {
		return nil, wrap("graph.ConnectProperty", ErrCannotConnectToProperty)
	}
	if causesCycle(producer, owner) {
		return nil, wrap("graph.ConnectProperty", newCycleError())
	}
	c := &Connection{producer: producer, target: target, owner: owner}
	owner.propertyConnections = append(owner.propertyConnections, c)
	return c, nil
}

// Disconnect removes c from whichever node it feeds.
func Disconnect(c *Connection) {
	if c.consumer != nil {
		c.consumer.inputConnections = removeConnection(c.consumer.inputConnections, c)
	}
	if c.owner != nil {
		c.owner.propertyConnections = removeConnection(c.owner.propertyConnections, c)
	}
}

func removeConnection(list []*Connection, target *Connection) []*Connection {
	out := list[:0]
	for _, c := range list {
		if c != target {
			out = append(out, c)
		}
	}
	return out
}

// pull ticks the producer for the current block and routes its output
// into whichever sink this connection feeds.
func (c *Connection) pull(ctx *TickContext) {
	c.producer.Tick(ctx)
	if c.consumer != nil {
		mixInto(c.consumer.inputs, c.producer.outputs, ctx.BlockSize, c.enableMixing)
		return
	}
	if len(c.producer.outputs) == 0 {
		return
	}
	src := c.producer.outputs[0]
	block := make([]float32, len(src))
	copy(block, src)
	_ = c.target.PushARateBlock(block)
}

func newCycleError() error { return ErrCausesCycle }

// causesCycle answers whether connecting producer as a new dependency of
// target would close a cycle: it walks backward from producer over every
// connection already feeding it (both node-input and property
// connections), and reports whether that walk ever reaches target. This
// is the mirror image of adding the edge target<-producer and asking
// whether producer can already, transitively, be reached starting from
// target — but computing it by walking from producer avoids needing the
// not-yet-created edge in the graph at all.
func causesCycle(producer, target *Node) bool {
	if producer == target {
		return true
	}
	visited := make(map[*Node]bool)
	var dfs func(n *Node) bool
	dfs = func(n *Node) bool {
		if n == target {
			return true
		}
		if visited[n] {
			return false
		}
		visited[n] = true
		for _, dep := range n.Dependencies() {
			if dfs(dep) {
				return true
			}
		}
		return false
	}
	return dfs(producer)
}

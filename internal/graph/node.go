// SPDX-License-Identifier: MIT

// Package graph implements the processing graph itself: nodes, the
// connections between them, and the per-block tick algorithm that pulls
// audio from sources through to a final output. Node and Connection mirror
// the node/edge model described by spec.md §3-§4; dspmath and property
// supply the numeric and parameter primitives they build on.
package graph

import (
	"sync/atomic"
	"weak"

	"auragraph/internal/property"
)

// State is a node's play/pause/always-playing classification. A paused
// node still occupies a slot in the graph but Tick short-circuits before
// ever calling into its Processor, per spec.md §4.6.
type State int32

const (
	StatePlaying State = iota
	StatePaused
	StateAlwaysPlaying
)

// Processor is the DSP kernel a Node wraps. Implementations live in
// internal/nodes, internal/reverb and internal/dsp; Node itself only knows
// how to drive one through a tick.
type Processor interface {
	// InputChannels and OutputChannels declare the fixed channel counts
	// this processor's single input and output port carry. A count of 0
	// means the port does not exist (e.g. a buffer player has no input).
	InputChannels() int
	OutputChannels() int

	// Process consumes n.Inputs() (already mixed from upstream
	// connections for this tick) and fills n.Outputs() in place.
	Process(n *Node, blockSize int)
}

// Resettable is optionally implemented by Processors that carry state
// needing to be cleared on Node.Reset (phase accumulators, delay line
// contents, filter history).
type Resettable interface {
	Reset()
}

// TickContext carries the per-block parameters every Tick needs: which
// logical block this is, how many frames it holds, and the global sample
// position automation tracks are evaluated against.
type TickContext struct {
	Tick        int64
	BlockSize   int
	SampleRate  float64
	GlobalStart int64 // Tick * BlockSize, in samples since engine start
}

// Node wraps a Processor with the bookkeeping spec.md §4.6 requires: a
// dedup tick counter, a paused flag, a property table (including the two
// always-present post-processing properties, mul and add), and the
// upstream connections that feed its input port.
type Node struct {
	Name      string
	Kind      string
	processor Processor

	state atomic.Int32

	lastProcessedTick int64
	ticked            bool // whether lastProcessedTick has ever been set

	outputs [][]float32
	inputs  [][]float32

	properties   map[string]*property.Property
	propertyList []*property.Property
	forwarded    map[string]forwardTarget

	mul *property.Property
	add *property.Property

	inputConnections    []*Connection
	propertyConnections []*Connection
}

// forwardTarget names the (node, slot) a forwarded property slot redirects
// to. The node reference is weak: a subgraph forwarding its public
// properties into nodes it owns internally must not be the thing keeping
// those internal nodes alive, matching the weak_ptr a forwarded property
// holds in the original implementation.
type forwardTarget struct {
	node weak.Pointer[Node]
	slot string
}

// NewNode constructs a Node around processor, pre-allocating its
// input/output blocks for the given block size and installing the mul/add
// post-processing properties every node carries per spec.md §4.6 step 8.
func NewNode(name, kind string, processor Processor, blockSize int) *Node {
	n := &Node{
		Name:       name,
		Kind:       kind,
		processor:  processor,
		properties: make(map[string]*property.Property),
	}
	n.outputs = allocBlock(processor.OutputChannels(), blockSize)
	n.inputs = allocBlock(processor.InputChannels(), blockSize)

	n.mul = property.NewFloat("mul", 1.0, -16.0, 16.0)
	n.add = property.NewFloat("add", 0.0, -16.0, 16.0)
	n.addProperty(n.mul)
	n.addProperty(n.add)

	return n
}

func allocBlock(channels, blockSize int) [][]float32 {
	if channels <= 0 {
		return nil
	}
	b := make([][]float32, channels)
	for i := range b {
		b[i] = make([]float32, blockSize)
	}
	return b
}

func zeroBlock(b [][]float32) {
	for _, ch := range b {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// addProperty registers p under its own name, used both for the built-in
// mul/add properties and by internal/nodes constructors populating their
// processor-specific tables.
func (n *Node) addProperty(p *property.Property) {
	n.properties[p.GetName()] = p
	n.propertyList = append(n.propertyList, p)
}

// AddProperty is the exported form addProperty, used by node constructors
// outside this package to register their Processor-specific parameters.
func (n *Node) AddProperty(p *property.Property) { n.addProperty(p) }

// Property looks up a property by name, resolving through any forwarding
// installed by ForwardProperty, and returning nil if the node has no such
// property (callers distinguish this from a typed error because the name
// itself, unlike a value, is checked at construction time). A forwarding
// entry whose target node has been collected also resolves to nil; a
// caller that needs to tell that case apart from a plain unknown name
// uses GetProperty instead.
func (n *Node) Property(name string) *property.Property {
	p, _ := n.GetProperty(name)
	return p
}

// GetProperty is Property's error-returning form: it reports CodeInternal
// if name is forwarded to a node that no longer exists, mirroring the
// original implementation's "better to crash here" treatment of a broken
// forwarding weak reference as an internal invariant violation rather than
// an ordinary not-found.
func (n *Node) GetProperty(name string) (*property.Property, error) {
	if fwd, ok := n.forwarded[name]; ok {
		target := fwd.node.Value()
		if target == nil {
			return nil, wrap("graph.GetProperty", ErrInternal)
		}
		return target.GetProperty(fwd.slot)
	}
	return n.properties[name], nil
}

// ForwardProperty makes the property named ourSlot resolve, for reads and
// writes alike, through the property named targetSlot on target — used by
// a subgraph-style node to expose an internal node's property as its own
// without copying values around every tick. The reference to target is
// weak, so forwarding alone never keeps target reachable.
func (n *Node) ForwardProperty(ourSlot string, target *Node, targetSlot string) {
	if n.forwarded == nil {
		n.forwarded = make(map[string]forwardTarget)
	}
	n.forwarded[ourSlot] = forwardTarget{node: weak.Make(target), slot: targetSlot}
}

// StopForwardingProperty removes a forwarding entry previously installed
// by ForwardProperty. Calling it for a slot that isn't currently forwarded
// is an internal invariant violation, matching the original implementation.
func (n *Node) StopForwardingProperty(ourSlot string) error {
	if _, ok := n.forwarded[ourSlot]; !ok {
		return wrap("graph.StopForwardingProperty", ErrInternal)
	}
	delete(n.forwarded, ourSlot)
	return nil
}

// Properties returns the node's properties in declaration order, for
// introspection (spec.md §6.5 metadata tables).
func (n *Node) Properties() []*property.Property {
	return n.propertyList
}

// State returns the node's current play/pause state.
func (n *Node) State() State { return State(n.state.Load()) }

// SetState changes the node's play/pause state. A node constructed
// StateAlwaysPlaying (e.g. a mixing bus) ignores Pause/Play but SetState
// can still be used to force it, matching how a caller who truly wants to
// override a system node would use the lower-level call.
func (n *Node) SetState(s State) { n.state.Store(int32(s)) }

// Pause and Play are the common-case helpers over SetState; both leave a
// StateAlwaysPlaying node unchanged.
func (n *Node) Pause() {
	if n.State() != StateAlwaysPlaying {
		n.SetState(StatePaused)
	}
}

func (n *Node) Play() {
	if n.State() != StateAlwaysPlaying {
		n.SetState(StatePlaying)
	}
}

func (n *Node) paused() bool { return n.State() == StatePaused }

// Outputs returns the node's output port as planar per-channel buffers,
// valid after Tick has run for the current block.
func (n *Node) Outputs() [][]float32 { return n.outputs }

// Inputs returns the node's input port, the sum of everything connected
// into it for the current block, valid during and after Process.
func (n *Node) Inputs() [][]float32 { return n.inputs }

// Mul and Add return the node's mul (output gain) and add (output bias)
// post-processing properties, exposed separately so callers can automate
// them without a name lookup.
func (n *Node) Mul() *property.Property { return n.mul }
func (n *Node) Add() *property.Property { return n.add }

// Reset clears the node's dedup tick marker and, if its Processor carries
// resettable state (phase, delay contents, filter history), clears that
// too. It does not touch property values; callers that want defaults
// restored call Property(...).Reset() explicitly.
func (n *Node) Reset() {
	n.ticked = false
	zeroBlock(n.outputs)
	zeroBlock(n.inputs)
	if r, ok := n.processor.(Resettable); ok {
		r.Reset()
	}
}

// Tick runs this node's one-block processing step, exactly once per Tick
// value no matter how many consumers pull on it in the same block. This
// is the algorithm of spec.md §4.6:
//
//  1. dedup: if this tick value was already processed, return immediately
//  2. zero the output buffer unconditionally
//  3. if paused, stop here (outputs stay silent)
//  4. advance every property's automation track by one block
//  5. zero the input buffer
//  6. for each upstream connection, recursively tick its producer and mix
//     its (possibly channel-remapped) output into this input
//  7. call the Processor's DSP kernel
//  8. apply output gain (mul) and bias (add), a-rate or k-rate as the
//     properties dictate
func (n *Node) Tick(ctx *TickContext) {
	if n.ticked && n.lastProcessedTick == ctx.Tick {
		return
	}
	n.ticked = true
	n.lastProcessedTick = ctx.Tick

	zeroBlock(n.outputs)

	if n.paused() {
		return
	}

	for _, c := range n.propertyConnections {
		c.pull(ctx)
	}
	n.tickProperties(ctx)

	zeroBlock(n.inputs)
	for _, c := range n.inputConnections {
		c.pull(ctx)
	}

	n.processor.Process(n, ctx.BlockSize)

	n.applyGainBias(ctx)
}

func (n *Node) tickProperties(ctx *TickContext) {
	for _, p := range n.propertyList {
		p.Tick(ctx.GlobalStart, ctx.BlockSize)
	}
}

func (n *Node) applyGainBias(ctx *TickContext) {
	mulARate := n.mul.NeedsARate()
	addARate := n.add.NeedsARate()
	if !mulARate && !addARate {
		mul, _ := n.mul.GetFloatValue()
		add, _ := n.add.GetFloatValue()
		if mul == 1.0 && add == 0.0 {
			return
		}
		g, b := float32(mul), float32(add)
		for _, ch := range n.outputs {
			for i, v := range ch {
				ch[i] = v*g + b
			}
		}
		return
	}
	for i := 0; i < ctx.BlockSize; i++ {
		mul, _ := n.mul.GetFloatValue(i)
		add, _ := n.add.GetFloatValue(i)
		g, b := float32(mul), float32(add)
		for _, ch := range n.outputs {
			ch[i] = ch[i]*g + b
		}
	}
}

// Dependencies returns the nodes this node pulls from directly (its
// immediate producers), used by the cycle-acyclicity check in
// connection.go.
func (n *Node) Dependencies() []*Node {
	deps := make([]*Node, 0, len(n.inputConnections)+len(n.propertyConnections))
	for _, c := range n.inputConnections {
		deps = append(deps, c.producer)
	}
	for _, c := range n.propertyConnections {
		deps = append(deps, c.producer)
	}
	return deps
}

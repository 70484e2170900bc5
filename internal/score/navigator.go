package score

import (
	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
	"libreshockwave/internal/dispatch"
	"libreshockwave/internal/lingo"
	"libreshockwave/internal/resolver"
)

// TimeoutManager is the externally maintained boundary addressed by the
// core (spec §6 "Boundary to timeout manager"): it gets first call on
// prepareFrame and exitFrame, before global propagation (spec §4.4
// "Timeouts").
type TimeoutManager interface {
	DispatchSystemEvent(vm *lingo.VM, name string)
}

// Navigator drives the frame loop (C8) and owns behaviour-instance
// lifecycle (C10), grounded on spec §4.4's per-tick state machine.
type Navigator struct {
	VM             *lingo.VM
	Dispatcher     *dispatch.Dispatcher
	Store          *container.Store
	ScoreChunk     *container.ScoreInfo
	Labels         *container.FrameLabelsInfo
	movieScripts   []*container.ScriptInfo
	TimeoutManager TimeoutManager

	spans        []SpriteSpan
	currentFrame int
	pendingFrame *int
	active       map[int]*BehaviorInstance // channel -> instance, channel 0 is the frame script
}

// New builds a Navigator positioned at frame 1 and immediately performs
// that frame's "on enter" sequence (spec §4.4): movie load is what puts
// the player at frame 1 with its sprites already live, before the first
// Tick ever runs.
func New(vm *lingo.VM, store *container.Store, sc *container.ScoreInfo, labels *container.FrameLabelsInfo, movieScripts []*container.ScriptInfo, timeouts TimeoutManager) *Navigator {
	n := &Navigator{
		VM:             vm,
		Dispatcher:     dispatch.New(vm),
		Store:          store,
		ScoreChunk:     sc,
		Labels:         labels,
		movieScripts:   movieScripts,
		TimeoutManager: timeouts,
		spans:          BuildSpans(sc),
		currentFrame:   1,
		active:         make(map[int]*BehaviorInstance),
	}
	n.enterFrame(n.currentFrame)
	return n
}

// CurrentFrame returns the frame the navigator is positioned at.
func (n *Navigator) CurrentFrame() int { return n.currentFrame }

// Go sets pendingFrame; the change happens at the next Tick's advance
// step (spec §4.4 "go/goToLabel").
func (n *Navigator) Go(frame int) {
	f := n.clampFrame(frame)
	n.pendingFrame = &f
}

// GoToLabel resolves name via the FrameLabels chunk and calls Go, if
// found.
func (n *Navigator) GoToLabel(name string) bool {
	if n.Labels == nil {
		return false
	}
	f, ok := n.Labels.FrameForLabel(name)
	if !ok {
		return false
	}
	n.Go(f)
	return true
}

func (n *Navigator) clampFrame(f int) int {
	if n.ScoreChunk == nil || n.ScoreChunk.FrameCount <= 0 {
		return f
	}
	if f < 1 {
		return 1
	}
	if f > n.ScoreChunk.FrameCount {
		return n.ScoreChunk.FrameCount
	}
	return f
}

// spansAt returns every span active at frame f (spec §4.4 "Active
// sprites at frame F").
func (n *Navigator) spansAt(f int) []SpriteSpan {
	var out []SpriteSpan
	for _, s := range n.spans {
		if s.Channel >= 1 && s.Contains(f) {
			out = append(out, s)
		}
	}
	return out
}

// Tick runs one full frame-loop iteration (spec §4.4, §5 "a tick
// executes: system events -> global events -> render snapshot capture ->
// frame advance"). exitFrame always fires once per tick (spec §5's
// ordering guarantee lists it as part of every tick, "next tick"'s
// boundary); the frame actually changing only gates the leaving-channel
// cleanup and the new frame's enter sequence.
func (n *Navigator) Tick() {
	n.dispatchSystemThenGlobal("stepFrame")
	n.dispatchSystemThenGlobal("prepareFrame")
	n.dispatchSystemThenGlobal("enterFrame")

	// render snapshot capture happens here, owned by the caller/renderer.

	next := n.currentFrame + 1
	if n.pendingFrame != nil {
		next = *n.pendingFrame
		n.pendingFrame = nil
	}
	if n.ScoreChunk != nil && n.ScoreChunk.FrameCount > 0 && next > n.ScoreChunk.FrameCount {
		next = 1
	}

	n.dispatchSystemThenGlobal("exitFrame")

	if next != n.currentFrame {
		n.frameChange(next)
	}
}

func (n *Navigator) dispatchSystemThenGlobal(name string) {
	if name == "prepareFrame" || name == "exitFrame" {
		if n.TimeoutManager != nil {
			n.TimeoutManager.DispatchSystemEvent(n.VM, name)
		}
	}
	n.Dispatcher.DispatchGlobalEvent(name, nil, n)
}

// frameChange implements the rest of spec §4.4 step 6, run only when the
// advance step actually lands on a different frame: endSprite for
// leaving channels, clear the frame-script instance, then enter the new
// frame. exitFrame itself has already been dispatched by Tick.
func (n *Navigator) frameChange(next int) {
	leaving := n.spansAt(n.currentFrame)
	entering := n.spansAt(next)
	enteringChannels := make(map[int]bool, len(entering))
	for _, s := range entering {
		enteringChannels[s.Channel] = true
	}
	for _, s := range leaving {
		if enteringChannels[s.Channel] {
			continue // still present in the new frame, not leaving
		}
		n.endSprite(s.Channel)
	}

	delete(n.active, 0) // the frame-script instance never survives a frame change

	n.currentFrame = next
	n.enterFrame(next)
}

// enterFrame implements spec §4.4 "On frame enter": create a
// BehaviorInstance per behaviour reference newly present in the frame,
// instantiate the frame script, and dispatch beginSprite.
func (n *Navigator) enterFrame(frame int) {
	for _, s := range n.spansAt(frame) {
		if _, exists := n.active[s.Channel]; exists {
			continue
		}
		for _, ref := range s.Behaviours {
			member, _, ok := resolver.ByNumber(n.Store, ref.CastLib, ref.MemberNumber)
			if !ok {
				continue
			}
			script, ok := resolver.Script(n.Store, member)
			if !ok {
				continue
			}
			inst := NewBehaviorInstance(n.VM, script, s.Channel, ref.Params)
			n.active[s.Channel] = inst
			n.beginSprite(inst)
		}
	}

	if _, exists := n.active[0]; !exists {
		if script, ok := n.frameScriptFor(frame); ok {
			inst := NewBehaviorInstance(n.VM, script, 0, datum.EmptyPropList())
			n.active[0] = inst
			n.beginSprite(inst)
		}
	}
}

// frameScriptFor resolves channel 0's behaviour for frame, if the Score
// grid carries one (spec §3: "Channels 0-5 ... script" is the reserved
// channel index; here it is addressed through the same ChannelData
// decode as a sprite channel).
func (n *Navigator) frameScriptFor(frame int) (*container.ScriptInfo, bool) {
	for _, e := range n.ScoreChunk.Entries {
		if e.FrameIndex != frame || e.ChannelIndex != frameScriptChannel {
			continue
		}
		ref, ok := decodeChannelData(e.ChannelData)
		if !ok {
			return nil, false
		}
		member, _, ok := resolver.ByNumber(n.Store, ref.CastLib, ref.MemberNumber)
		if !ok {
			return nil, false
		}
		return resolver.Script(n.Store, member)
	}
	return nil, false
}

// frameScriptChannel is the reserved Score channel carrying the frame
// script (spec §3 "Channels 0-5 of the Score are reserved (tempo,
// palette, transition, sound x2, script)").
const frameScriptChannel = 5

func (n *Navigator) beginSprite(inst *BehaviorInstance) {
	if inst.BeginSpriteCalled {
		return
	}
	inst.BeginSpriteCalled = true
	n.Dispatcher.DispatchSpriteEvent(inst.Channel, "beginSprite", nil, singleTarget(inst))
}

func (n *Navigator) endSprite(channel int) {
	inst, ok := n.active[channel]
	if !ok || inst.EndSpriteCalled {
		return
	}
	inst.EndSpriteCalled = true
	n.Dispatcher.DispatchSpriteEvent(channel, "endSprite", nil, singleTarget(inst))
	delete(n.active, channel)
}

// singleTarget adapts one BehaviorInstance to dispatch.Targets so
// beginSprite/endSprite reach exactly that instance and nothing else.
func singleTarget(inst *BehaviorInstance) dispatch.Targets {
	t := dispatch.Target{Channel: inst.Channel, Script: inst.Script, Receiver: inst}
	return staticOne{t}
}

type staticOne struct{ t dispatch.Target }

func (s staticOne) SpriteBehaviors() []dispatch.Target   { return []dispatch.Target{s.t} }
func (s staticOne) FrameScript() (dispatch.Target, bool) { return dispatch.Target{}, false }
func (s staticOne) MovieScripts() []dispatch.Target      { return nil }

// --- dispatch.Targets implementation, channel-ascending ---

func (n *Navigator) SpriteBehaviors() []dispatch.Target {
	channels := make([]int, 0, len(n.active))
	for ch := range n.active {
		if ch >= 1 {
			channels = append(channels, ch)
		}
	}
	insertionSort(channels)
	out := make([]dispatch.Target, 0, len(channels))
	for _, ch := range channels {
		inst := n.active[ch]
		out = append(out, dispatch.Target{Channel: ch, Script: inst.Script, Receiver: inst})
	}
	return out
}

func (n *Navigator) FrameScript() (dispatch.Target, bool) {
	inst, ok := n.active[0]
	if !ok {
		return dispatch.Target{}, false
	}
	return dispatch.Target{Channel: 0, Script: inst.Script, Receiver: inst}, true
}

func (n *Navigator) MovieScripts() []dispatch.Target {
	out := make([]dispatch.Target, 0, len(n.movieScripts))
	for _, s := range n.movieScripts {
		out = append(out, dispatch.Target{Script: s})
	}
	return out
}

func insertionSort(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

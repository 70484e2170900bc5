// Package dispatch implements the event dispatcher (C7): three-tier
// handler lookup and invocation (sprite behaviours, frame script, movie
// scripts) with `pass`-based propagation, grounded on spec §4.5. It sits
// between the frame loop (internal/score) and the VM (internal/lingo):
// score decides which events fire and when, dispatch decides who sees
// them and in what order.
package dispatch

import (
	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
	"libreshockwave/internal/lingo"
)

// Target is one handler-bearing instance the dispatcher can deliver an
// event to: a sprite behaviour, the frame script, or a movie script.
type Target struct {
	Channel  int // sprite channel number; meaningless for frame/movie targets
	Script   *container.ScriptInfo
	Receiver lingo.Receiver
}

// Targets is implemented by whatever owns the current frame's instance
// state (internal/score's Navigator) so the dispatcher never needs to
// know about sprites, spans, or the score chunk directly.
type Targets interface {
	// SpriteBehaviors returns every active sprite behaviour, in
	// channel-ascending order (spec §4.5 "channel-ascending").
	SpriteBehaviors() []Target
	// FrameScript returns the current frame's frame-script instance, if any.
	FrameScript() (Target, bool)
	// MovieScripts returns every movie script, in load order.
	MovieScripts() []Target
}

// Dispatcher runs handler lookup and pass-based propagation over a VM and
// a Targets provider (spec §4.5).
type Dispatcher struct {
	VM *lingo.VM
}

// New constructs a Dispatcher bound to vm.
func New(vm *lingo.VM) *Dispatcher {
	return &Dispatcher{VM: vm}
}

// DispatchGlobalEvent delivers name to every sprite behaviour
// (channel-ascending), then the frame script, then every movie script,
// stopping at the first handler that does not call `pass` (spec §4.5).
func (d *Dispatcher) DispatchGlobalEvent(name string, args []datum.Value, targets Targets) error {
	for _, t := range targets.SpriteBehaviors() {
		stop, err := d.deliver(t, name, args)
		if err != nil || stop {
			return err
		}
	}
	return d.DispatchFrameAndMovieEvent(name, args, targets)
}

// DispatchFrameAndMovieEvent delivers name to the frame script then every
// movie script, skipping the sprite tier (spec §4.5).
func (d *Dispatcher) DispatchFrameAndMovieEvent(name string, args []datum.Value, targets Targets) error {
	if fs, ok := targets.FrameScript(); ok {
		stop, err := d.deliver(fs, name, args)
		if err != nil || stop {
			return err
		}
	}
	for _, t := range targets.MovieScripts() {
		stop, err := d.deliver(t, name, args)
		if err != nil || stop {
			return err
		}
	}
	return nil
}

// DispatchSpriteEvent delivers name only to the behaviours on channel,
// ignoring `pass` outside that channel: propagation never crosses into
// the frame or movie tiers (spec §4.5).
func (d *Dispatcher) DispatchSpriteEvent(channel int, name string, args []datum.Value, targets Targets) error {
	for _, t := range targets.SpriteBehaviors() {
		if t.Channel != channel {
			continue
		}
		if _, err := d.deliver(t, name, args); err != nil {
			return err
		}
	}
	return nil
}

// deliver looks up name on t.Script and, if found, executes it with
// propagation defaulted to stopped (spec §4.5: "stops ... when a handler
// returns without calling pass"). It reports (stopPropagation, error);
// a missing handler is reported as (false, nil) so the caller keeps
// walking tiers (spec §4.5 "Handler lookup").
func (d *Dispatcher) deliver(t Target, name string, args []datum.Value) (bool, error) {
	if t.Script == nil {
		return false, nil
	}
	handler, ok := t.Script.HandlerNamed(name)
	if !ok {
		return false, nil
	}

	d.VM.SetPropagationStop(true)
	_, err := d.VM.Execute(t.Script, handler, t.Receiver, args)
	if err != nil {
		// A VmFault isolates to this event (spec §4.5 "Error isolation"):
		// it has already reached the sink via VM.vmFault, so here it only
		// needs to stop this dispatch.
		return true, nil
	}
	return d.VM.PropagationStopped(), nil
}

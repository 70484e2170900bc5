// Package score implements the score navigator, frame loop, and
// behaviour manager (C8 + C10), grounded on spec §4.4. It owns the
// BehaviorInstance lifecycle, drives the per-tick frame state machine,
// and implements dispatch.Targets so internal/dispatch can deliver
// events without knowing about sprites or spans.
package score

import (
	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
	"libreshockwave/internal/lingo"
)

// BehaviorInstance is a behaviour or frame-script instance bound to a
// channel (spec §3 "BehaviorInstance"): channel 0 is the frame script,
// channel >= 1 a sprite behaviour. It wraps a SimpleReceiver so it
// satisfies lingo.Receiver without internal/lingo needing to know about
// score at all.
type BehaviorInstance struct {
	*lingo.SimpleReceiver
	Channel           int
	Script            *container.ScriptInfo
	BeginSpriteCalled bool
	EndSpriteCalled   bool
}

// NewBehaviorInstance registers a new instance with vm and sets its
// spriteNum property to channel, satisfying spec §8's invariant
// "b.properties[\"spriteNum\"] == b.channel immediately after creation".
// params, if non-empty, seeds the instance's property map (spec §4.4
// "applying parameter PropLists to its property map").
func NewBehaviorInstance(vm *lingo.VM, script *container.ScriptInfo, channel int, params datum.PropList) *BehaviorInstance {
	receiver := lingo.NewSimpleReceiver(datum.ScriptInstance{})
	vm.NewInstance(script.ID, receiver)

	bi := &BehaviorInstance{SimpleReceiver: receiver, Channel: channel, Script: script}
	for _, k := range params.Keys() {
		v, _ := params.Get(k)
		bi.SetProp(k, v)
	}
	bi.SetProp("spriteNum", datum.NewInteger(int32(channel)))
	return bi
}

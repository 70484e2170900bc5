// Package builtins implements the built-in registry (C11): host-provided
// functions exposed to Lingo over string, list, math, network, and
// digest values, plus propagation control (`pass`).
//
// Grounded on the teacher's builtins package
// (_examples/MongooseMoo-barn/builtins/registry.go): one file per
// concern (strings.go/lists.go/math.go/...), a single Register
// entry point that installs every function by name, and functions that
// pop their own arguments and return a Value rather than receiving a
// pre-decoded argument list — here that shape is `lingo.Builtin`
// (`func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value`),
// mirroring the teacher's `BuiltinFunc(ctx *types.TaskContext, args
// []types.Value) types.Result`.
package builtins

import (
	"libreshockwave/internal/lingo"
	"libreshockwave/internal/netmgr"
)

// Register installs every built-in this package provides onto vm. net
// may be nil if the caller never needs the network family (its builtins
// then return fixed placeholder results rather than panicking; see
// registerNet).
func Register(vm *lingo.VM, net *netmgr.Manager) {
	registerSystem(vm)
	registerStrings(vm)
	registerLists(vm)
	registerMath(vm)
	registerNet(vm, net)
	registerCrypto(vm)
}

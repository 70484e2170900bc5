package builtins

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"golang.org/x/crypto/ripemd160"

	"libreshockwave/internal/datum"
	"libreshockwave/internal/lingo"
)

// registerCrypto installs digest built-ins, grounded on the teacher's
// crypto.go (getHasher/string_hash/binary_hash): a named algorithm
// selects a hash.Hash, the input is written to it once, and the sum is
// returned as an uppercase hex string unless the caller asks for raw
// bytes.
func registerCrypto(vm *lingo.VM) {
	vm.RegisterBuiltin("stringHash", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		s, ok := asString(args, 0)
		if !ok {
			return datum.VOID
		}
		return hashValue(args, []byte(s))
	})

	vm.RegisterBuiltin("binaryHash", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		s, ok := asString(args, 0)
		if !ok {
			return datum.VOID
		}
		return hashValue(args, []byte(s))
	})
}

func hashValue(args []datum.Value, data []byte) datum.Value {
	algo := "sha256"
	if s, ok := asString(args, 1); ok {
		algo = s
	}
	hasher, ok := getHasher(algo)
	if !ok {
		return datum.VOID
	}
	hasher.Write(data)
	sum := hasher.Sum(nil)

	raw := len(args) >= 3 && args[2].Truthy()
	if raw {
		return datum.NewString(string(sum))
	}
	return datum.NewString(strings.ToUpper(hex.EncodeToString(sum)))
}

func getHasher(algo string) (hash.Hash, bool) {
	switch strings.ToLower(algo) {
	case "md5":
		return md5.New(), true
	case "sha1":
		return sha1.New(), true
	case "sha224":
		return sha256.New224(), true
	case "sha256", "":
		return sha256.New(), true
	case "sha384":
		return sha512.New384(), true
	case "sha512":
		return sha512.New(), true
	case "ripemd160":
		return ripemd160.New(), true
	default:
		return nil, false
	}
}

package machine

import (
	"fmt"
	"os"
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"unsafe"

	"github.com/mna/tinyc/lang/ast"
	"github.com/mna/tinyc/lang/types"
	"gopkg.in/yaml.v3"
)

// builtinPrint implements the `print(*char) -> none` extern: it walks the
// NUL-terminated byte sequence at ptr and writes it to stderr (spec §1,
// "The built-in foreign callables").
func builtinPrint(ptr int64) {
	p := (*byte)(unsafe.Pointer(uintptr(ptr)))
	var b []byte
	for off := uintptr(0); ; off++ {
		c := *(*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + off))
		if c == 0 {
			break
		}
		b = append(b, c)
	}
	fmt.Fprint(os.Stderr, string(b))
}

var (
	runtimeStringsMu sync.Mutex
	runtimeStrings   [][]byte
)

// builtinToString implements `to_string(i64) -> *char`: it formats n in base
// 10 and returns the address of a process-lifetime NUL-terminated copy,
// pinned in runtimeStrings for the same reason ast.ExternString pins its
// literals (spec §9, "String literals leak memory" — the same allocation
// discipline applies to every string value this core ever produces).
func builtinToString(n int64) int64 {
	s := strconv.FormatInt(n, 10)
	buf := make([]byte, len(s)+1)
	copy(buf, s)

	runtimeStringsMu.Lock()
	runtimeStrings = append(runtimeStrings, buf)
	runtimeStringsMu.Unlock()

	return int64(uintptr(unsafe.Pointer(&buf[0])))
}

// builtinBreakpoint implements `bp() -> none`, a debugger trap the emitted
// program can call to pause under a native debugger.
func builtinBreakpoint() { runtime.Breakpoint() }

// externAddr returns fn's entry address as an opaque int64 (spec §3,
// "Extern table... absolute code address as a 64-bit integer").
//
// Calling this address from emitted code relies on the System V argument
// registers (rdi, rsi) lining up with the current Go compiler's internal
// register-based calling convention for simple single/two-integer-argument,
// single-result functions; it is not guaranteed by the Go language
// specification and would need an assembly trampoline per extern to be
// portable across compiler versions. This mirrors the spec's own
// acknowledged-fragile designs (§9, "Compile-time stack counter") rather
// than hiding the limitation.
func externAddr(fn any) int64 {
	return int64(reflect.ValueOf(fn).Pointer())
}

// DefaultExterns returns the built-in roster every tinyc program is
// compiled against: print, to_string, bp (spec §4.6).
func DefaultExterns() map[string]ast.ExternBinding {
	return map[string]ast.ExternBinding{
		"print": {
			Addr:   externAddr(builtinPrint),
			Ret:    types.NoneT,
			Params: []types.Type{types.NewPointer(types.CharT)},
		},
		"to_string": {
			Addr:   externAddr(builtinToString),
			Ret:    types.NewPointer(types.CharT),
			Params: []types.Type{types.I64T},
		},
		"bp": {
			Addr:   externAddr(builtinBreakpoint),
			Ret:    types.NoneT,
			Params: nil,
		},
	}
}

// externManifestEntry is one extern declaration in an externs.yaml manifest
// (spec's domain-stack wiring of gopkg.in/yaml.v3, SPEC_FULL.md): a name
// paired with a return type and parameter type list, spelled the same way
// the language's grammar spells types ("i64", "*char", "none").
type externManifestEntry struct {
	Name   string   `yaml:"name"`
	Ret    string   `yaml:"ret"`
	Params []string `yaml:"params"`
}

type externManifest struct {
	Externs []externManifestEntry `yaml:"externs"`
}

// LoadExternManifest parses a YAML document declaring additional externs
// whose native addresses are supplied by the host via addrs (name ->
// address), and merges them into base. It is used by hosts that want to
// register externs declaratively instead of only via DefaultExterns (spec
// §3, "Extern table... Populated before parsing by the driver").
func LoadExternManifest(doc []byte, addrs map[string]int64, base map[string]ast.ExternBinding) (map[string]ast.ExternBinding, error) {
	var m externManifest
	if err := yaml.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("machine: parsing extern manifest: %w", err)
	}

	out := make(map[string]ast.ExternBinding, len(base)+len(m.Externs))
	for k, v := range base {
		out[k] = v
	}

	for _, e := range m.Externs {
		addr, ok := addrs[e.Name]
		if !ok {
			return nil, fmt.Errorf("machine: extern manifest declares %q with no registered address", e.Name)
		}
		ret, err := parseManifestType(e.Ret)
		if err != nil {
			return nil, fmt.Errorf("machine: extern %q: %w", e.Name, err)
		}
		params := make([]types.Type, len(e.Params))
		for i, p := range e.Params {
			pt, err := parseManifestType(p)
			if err != nil {
				return nil, fmt.Errorf("machine: extern %q param %d: %w", e.Name, i, err)
			}
			params[i] = pt
		}
		out[e.Name] = ast.ExternBinding{Addr: addr, Ret: ret, Params: params}
	}
	return out, nil
}

func parseManifestType(s string) (types.Type, error) {
	switch s {
	case "none":
		return types.NoneT, nil
	case "i64":
		return types.I64T, nil
	case "char":
		return types.CharT, nil
	case "*char":
		return types.NewPointer(types.CharT), nil
	default:
		return types.Type{}, fmt.Errorf("unknown extern type %q", s)
	}
}

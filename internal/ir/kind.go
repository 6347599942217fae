// Package ir models ink! attributes as typed values over the syntax
// tree: classified attribute kinds, parsed meta arguments and the
// ordering rules that make one argument of an attribute its primary,
// entity-defining one.
package ir

type MacroKind int

const (
	MacroUnknown MacroKind = iota
	ChainExtension
	Contract
	StorageItem
	Test
	TraitDefinition
	E2ETest
)

// macroNames maps a two-segment attribute path to its macro kind.
var macroNames = map[[2]string]MacroKind{
	{"ink", "chain_extension"}:  ChainExtension,
	{"ink", "contract"}:         Contract,
	{"ink", "storage_item"}:     StorageItem,
	{"ink", "test"}:             Test,
	{"ink", "trait_definition"}: TraitDefinition,
	{"ink_e2e", "test"}:         E2ETest,
}

// Path returns the full attribute path for the macro kind.
func (k MacroKind) Path() string {
	for path, kind := range macroNames {
		if kind == k {
			return path[0] + "::" + path[1]
		}
	}
	return ""
}

// String returns the attribute path of the macro, "unknown" for
// MacroUnknown.
func (k MacroKind) String() string {
	if path := k.Path(); path != "" {
		return path
	}
	return "unknown"
}

type ArgKind int

const (
	ArgUnknown ArgKind = iota

	// Entity-defining arguments.
	Constructor
	Event
	Extension
	Impl
	Message
	Storage
	Topic

	// Complementary arguments.
	AdditionalContracts
	Anonymous
	Default
	Derive
	Env
	Environment
	HandleStatus
	KeepAttr
	Namespace
	Payable
	Selector
)

var argNames = map[string]ArgKind{
	"additional_contracts": AdditionalContracts,
	"anonymous":            Anonymous,
	"constructor":          Constructor,
	"default":              Default,
	"derive":               Derive,
	"env":                  Env,
	"environment":          Environment,
	"extension":            Extension,
	"handle_status":        HandleStatus,
	"impl":                 Impl,
	"keep_attr":            KeepAttr,
	"message":              Message,
	"namespace":            Namespace,
	"payable":              Payable,
	"selector":             Selector,
	"storage":              Storage,
	"topic":                Topic,
	"event":                Event,
}

// ArgKindFromName resolves an argument name to its kind, ArgUnknown for
// names the analyzer has no rules for.
func ArgKindFromName(name string) ArgKind {
	if kind, ok := argNames[name]; ok {
		return kind
	}
	return ArgUnknown
}

// Name returns the canonical argument name, empty for ArgUnknown.
func (k ArgKind) Name() string {
	for name, kind := range argNames {
		if kind == k {
			return name
		}
	}
	return ""
}

// Rank orders arguments for primary-kind selection and flattening:
// entity-defining arguments sort before complementary ones, unknown
// arguments last. Equal ranks keep their source order.
func (k ArgKind) Rank() int {
	switch k {
	case Constructor, Event, Extension, Impl, Message, Storage, Topic:
		return 0
	case ArgUnknown:
		return 10
	default:
		return 1
	}
}

// String returns the canonical argument name, "unknown" for ArgUnknown.
func (k ArgKind) String() string {
	if name := k.Name(); name != "" {
		return name
	}
	return "unknown"
}

// IsEntityDefining reports whether the argument alone defines an ink!
// entity (as opposed to refining one).
func (k ArgKind) IsEntityDefining() bool {
	return k.Rank() == 0
}

// AttributeKind identifies what an ink! attribute means: either an ink!
// macro invocation or an argument attribute named by its primary
// argument. The zero value is Arg(ArgUnknown). Values are comparable
// and usable as map keys.
type AttributeKind struct {
	IsMacro bool
	Macro   MacroKind
	Arg     ArgKind
}

func MacroAttr(kind MacroKind) AttributeKind {
	return AttributeKind{IsMacro: true, Macro: kind}
}

func ArgAttr(kind ArgKind) AttributeKind {
	return AttributeKind{Arg: kind}
}

func (k AttributeKind) String() string {
	if k.IsMacro {
		return "macro " + k.Macro.String()
	}
	return "arg " + k.Arg.String()
}

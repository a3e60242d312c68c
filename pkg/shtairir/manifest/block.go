package manifest

import "github.com/humancuration/cpc-shtairir/pkg/shtairir/types"

// Purity is whether a block is allowed to have side effects.
type Purity int

const (
	Pure Purity = iota
	Impure
)

// Determinism is whether a block's output is a pure function of its inputs.
type Determinism int

const (
	Deterministic Determinism = iota
	Nondeterministic
)

// Capability is a closed set of trait-like properties a GenericParam may
// be bound by.
type Capability string

const (
	CapClone   Capability = "Clone"
	CapCopy    Capability = "Copy"
	CapSerde   Capability = "Serde"
	CapEq      Capability = "Eq"
	CapOrd     Capability = "Ord"
	CapHash    Capability = "Hash"
	CapSend    Capability = "Send"
	CapSync    Capability = "Sync"
	CapDefault Capability = "Default"
)

// KnownCapabilities is the closed set of valid GenericParam bounds.
var KnownCapabilities = map[Capability]bool{
	CapClone: true, CapCopy: true, CapSerde: true, CapEq: true, CapOrd: true,
	CapHash: true, CapSend: true, CapSync: true, CapDefault: true,
}

// EngineFlag is a closed set of capability flags an engine requirement may declare.
type EngineFlag string

const (
	FlagSerde      EngineFlag = "serde"
	FlagPureValues EngineFlag = "pure_values"
	FlagStreams    EngineFlag = "streams"
	FlagTime       EngineFlag = "time"
	FlagWasm       EngineFlag = "wasm"
	FlagNet        EngineFlag = "net"
	FlagFs         EngineFlag = "fs"
)

// KnownEngineFlags is the closed set of valid engine capability_flags.
var KnownEngineFlags = map[EngineFlag]bool{
	FlagSerde: true, FlagPureValues: true, FlagStreams: true, FlagTime: true,
	FlagWasm: true, FlagNet: true, FlagFs: true,
}

// EngineRequirement gates which runtime a block or graph targets.
type EngineRequirement struct {
	VersionReq      string // raw source text; parsed on demand by the validator
	CapabilityFlags []EngineFlag
}

// EffectString is a dot-separated effect tag, e.g. "fs.read" or "app.<id>.*".
type EffectString string

// GenericParam is a generic type variable bound by zero or more capabilities.
type GenericParam struct {
	Name   string
	Bounds []Capability
}

// PortKind constrains how a port's declared Type may be used.
type PortKind int

const (
	PortKindUnset PortKind = iota
	PortValue
	PortStream
	PortEvent
	PortComposite
)

// AllowedValues restricts a param port's legal literals.
type AllowedValues struct {
	Enum      []ValueLiteral
	RangeLow  *ValueLiteral
	RangeHigh *ValueLiteral
}

// PortSpec is a block-level port declaration (input, output, or param).
type PortSpec struct {
	PortID  string
	Name    string
	Type    *types.Type
	Kind    PortKind // PortKindUnset means "not declared"
	Default *ValueLiteral
	Allowed *AllowedValues
}

// Integrity carries an optional content hash over the manifest source bytes.
type Integrity struct {
	ContentHash string // "sha256:" + 64 hex chars
}

// BlockSpec is an atomic, versioned computational unit with typed ports.
type BlockSpec struct {
	ID            FullyQualifiedId
	Namespace     Namespace
	Name          string
	Version       *Version
	SchemaVersion string

	PurityLevel Purity
	Determinism Determinism
	Effects     []EffectString

	Generics []GenericParam
	Inputs   []PortSpec
	Outputs  []PortSpec
	Params   []PortSpec

	Engine EngineRequirement

	Integrity *Integrity
	Examples  []map[string]ValueLiteral
}

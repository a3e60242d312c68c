package validate

import (
	"regexp"

	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/types"
)

var (
	nameRe          = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*$`)
	genericNameRe   = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	integrityHashRe = regexp.MustCompile(`^sha256:[0-9a-f]{64}$`)
)

// Block runs B1-B15 against b and returns the first violation, or nil.
func Block(b *manifest.BlockSpec) error {
	path := b.ID.String()

	if b.ID.Namespace != b.Namespace || b.ID.Name != b.Name || b.ID.Version.String() != b.Version.String() {
		return newErr(InvalidIdentifier, path, "id does not agree with namespace/name/version")
	}
	if !b.Namespace.Valid() {
		return newErr(InvalidIdentifier, path, "namespace does not match namespace grammar")
	}
	if !nameRe.MatchString(b.Name) {
		return newErr(InvalidIdentifier, path, "name does not match name grammar")
	}
	if b.SchemaVersion != "0.2" {
		return newErr(InvalidIdentifier, path, "schema_version must be \"0.2\"")
	}

	if b.PurityLevel == manifest.Pure && len(b.Effects) > 0 {
		return newErr(PurityViolation, path, "pure block declares effects")
	}
	if b.Determinism == manifest.Deterministic && len(b.Effects) > 0 {
		return newErr(DeterminismViolation, path, "deterministic block declares effects")
	}
	for _, eff := range b.Effects {
		if !validEffectString(string(eff)) {
			return newErr(InvalidEffect, path, "malformed effect string: "+string(eff))
		}
	}

	for _, g := range b.Generics {
		if !genericNameRe.MatchString(g.Name) {
			return newErr(InvalidIdentifier, path, "generic param name invalid: "+g.Name)
		}
		for _, bound := range g.Bounds {
			if !manifest.KnownCapabilities[bound] {
				return newErr(UnknownGenericBound, path, "unknown capability bound: "+string(bound))
			}
		}
	}

	if err := validateEngine(path, b.Engine); err != nil {
		return err
	}

	if err := uniquePortNames(path, "input", b.Inputs); err != nil {
		return err
	}
	if err := uniquePortNames(path, "output", b.Outputs); err != nil {
		return err
	}
	if err := uniquePortNames(path, "param", b.Params); err != nil {
		return err
	}

	if len(b.Outputs) == 0 {
		return newErr(NoOutputs, path, "block declares no outputs")
	}

	for _, ports := range [][]manifest.PortSpec{b.Inputs, b.Outputs, b.Params} {
		for _, p := range ports {
			if err := validatePort(path, p); err != nil {
				return err
			}
		}
	}

	if b.Integrity != nil && b.Integrity.ContentHash != "" {
		if !integrityHashRe.MatchString(b.Integrity.ContentHash) {
			return newErr(InvalidIntegrityHash, path, "content_hash malformed: "+b.Integrity.ContentHash)
		}
	}

	return nil
}

func validateEngine(path string, e manifest.EngineRequirement) error {
	if e.VersionReq != "" {
		if _, err := manifest.ParseVersionReq(e.VersionReq); err != nil {
			return newErr(InvalidIdentifier, path, "engine.version_req malformed: "+err.Error())
		}
	}
	for _, f := range e.CapabilityFlags {
		if !manifest.KnownEngineFlags[f] {
			return newErr(UnknownCapabilityFlag, path, "unknown capability flag: "+string(f))
		}
	}
	return nil
}

func uniquePortNames(path, kind string, ports []manifest.PortSpec) error {
	seen := map[string]bool{}
	for _, p := range ports {
		if seen[p.Name] {
			return newErr(DuplicatePortName, path, "duplicate "+kind+" port name: "+p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func validatePort(path string, p manifest.PortSpec) error {
	portPath := path + ": " + p.Name

	if p.Type == nil {
		return newErr(InvalidType, portPath, "type missing")
	}
	ty := p.Type

	if err := checkPortKind(portPath, p.Kind, ty); err != nil {
		return err
	}

	if p.Default != nil {
		ok, kind := compatibleLiteral(*p.Default, ty)
		if !ok {
			return newErr(kind, portPath, "default incompatible with declared type")
		}
	}

	if p.Allowed != nil {
		for _, v := range p.Allowed.Enum {
			if ok, kind := compatibleLiteral(v, ty); !ok {
				return newErr(kind, portPath, "allowed.enum value incompatible with declared type")
			}
		}
		if p.Allowed.RangeLow != nil {
			if ok, kind := compatibleLiteral(*p.Allowed.RangeLow, ty); !ok {
				return newErr(kind, portPath, "allowed.range low incompatible with declared type")
			}
		}
		if p.Allowed.RangeHigh != nil {
			if ok, kind := compatibleLiteral(*p.Allowed.RangeHigh, ty); !ok {
				return newErr(kind, portPath, "allowed.range high incompatible with declared type")
			}
		}
	}

	return nil
}

func checkPortKind(path string, kind manifest.PortKind, ty *types.Type) error {
	switch kind {
	case manifest.PortKindUnset:
		return nil
	case manifest.PortValue:
		if ty.Kind == types.KindStream || ty.Kind == types.KindEvent {
			return newErr(PortKindMismatch, path, "kind=Value forbids Stream/Event types")
		}
	case manifest.PortStream:
		if ty.Kind != types.KindStream {
			return newErr(PortKindMismatch, path, "kind=Stream requires Stream<T> type")
		}
	case manifest.PortEvent:
		if ty.Kind != types.KindEvent {
			return newErr(PortKindMismatch, path, "kind=Event requires Event<T> type")
		}
	case manifest.PortComposite:
		if ty.Kind != types.KindStruct && ty.Kind != types.KindEnum && ty.Kind != types.KindTuple {
			return newErr(PortKindMismatch, path, "kind=Composite requires Struct/Enum/tuple type")
		}
	}
	return nil
}

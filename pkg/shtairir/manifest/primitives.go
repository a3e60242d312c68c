// Package manifest holds the pure value types for BlockSpec, GraphSpec and
// their sub-structures. It has no behavior beyond construction and
// accessors; every invariant is enforced by pkg/shtairir/validate.
package manifest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is a SemVer 2.0 triple with optional pre-release.
type Version = semver.Version

// VersionReq is a SemVer requirement expression.
type VersionReq = semver.Constraints

// ParseVersion parses a SemVer triple.
func ParseVersion(s string) (*Version, error) {
	return semver.NewVersion(s)
}

// ParseVersionReq parses a SemVer requirement expression ("^0.2", ">=1.0, <2.0", "*", ...).
func ParseVersionReq(s string) (*VersionReq, error) {
	return semver.NewConstraint(s)
}

var namespaceRe = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*$`)

// Namespace is a non-empty sequence of snake_case segments joined by '.'.
type Namespace string

// Valid reports whether ns matches the namespace grammar.
func (ns Namespace) Valid() bool {
	return namespaceRe.MatchString(string(ns))
}

func (ns Namespace) String() string { return string(ns) }

// FullyQualifiedId is "namespace/name@version".
type FullyQualifiedId struct {
	Namespace Namespace
	Name      string
	Version   *Version
}

func (id FullyQualifiedId) String() string {
	return fmt.Sprintf("%s/%s@%s", id.Namespace, id.Name, id.Version)
}

// ParseFullyQualifiedId parses "namespace/name@version".
func ParseFullyQualifiedId(s string) (FullyQualifiedId, error) {
	slash := strings.IndexByte(s, '/')
	at := strings.LastIndexByte(s, '@')
	if slash < 0 || at < 0 || at < slash {
		return FullyQualifiedId{}, fmt.Errorf("malformed fully qualified id: %q", s)
	}
	ns := s[:slash]
	name := s[slash+1 : at]
	verStr := s[at+1:]
	v, err := ParseVersion(verStr)
	if err != nil {
		return FullyQualifiedId{}, fmt.Errorf("malformed fully qualified id %q: %w", s, err)
	}
	return FullyQualifiedId{Namespace: Namespace(ns), Name: name, Version: v}, nil
}

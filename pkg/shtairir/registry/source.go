// Package registry collects manifests from an abstract ManifestSource, keys
// them by namespace/name@version, and resolves version requirements against
// what it loaded.
package registry

import "github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"

// ManifestSource is the sole input contract the registry depends on;
// implementations may back onto a filesystem, an embedded fixture set, or
// anything else — the registry is format-agnostic.
type ManifestSource interface {
	ListModules() ([]manifest.Namespace, error)
	ListVersions(module manifest.Namespace) ([]*manifest.Version, error)
	LoadBlock(module manifest.Namespace, version *manifest.Version, name string) (*manifest.BlockSpec, error)
	LoadGraph(module manifest.Namespace, version *manifest.Version, name string) (*manifest.GraphSpec, error)
	// ListBlockNames and ListGraphNames enumerate the entities present at a
	// given module version, letting Build walk a source without requiring
	// it to know entity names up front.
	ListBlockNames(module manifest.Namespace, version *manifest.Version) ([]string, error)
	ListGraphNames(module manifest.Namespace, version *manifest.Version) ([]string, error)
}

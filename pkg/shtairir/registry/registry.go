package registry

import (
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/humancuration/cpc-shtairir/internal/support/log"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
)

// Options configures Build.
type Options struct {
	// VersionCacheSize bounds the LRU cache of resolved version lookups.
	// Zero selects a sensible default.
	VersionCacheSize int
	Logger           *log.Logger
}

func (o Options) withDefaults() Options {
	if o.VersionCacheSize <= 0 {
		o.VersionCacheSize = 256
	}
	if o.Logger == nil {
		o.Logger = log.Default("registry")
	}
	return o
}

// Registry is an immutable, concurrently-readable collection of BlockSpec
// and GraphSpec instances. It exclusively owns every entity it holds;
// handles returned to callers are borrow-only.
type Registry struct {
	blocks map[string]*manifest.BlockSpec
	graphs map[string]*manifest.GraphSpec

	// moduleVersions holds, per module namespace, every Version present in
	// the registry sorted descending so Resolve can scan from the newest.
	moduleVersions map[manifest.Namespace][]*manifest.Version

	resolveCache *lru.Cache[resolveKey, *manifest.Version]

	// mu guards nothing about the maps above (they are immutable after
	// Build returns) but serializes access to resolveCache, which mutates
	// its LRU ordering on every lookup.
	mu sync.Mutex

	log *log.Logger
}

type resolveKey struct {
	module manifest.Namespace
	req    string
}

// Build walks every module/version/entity a ManifestSource reports and
// assembles an immutable Registry, or fails with DuplicateModule,
// DuplicateEntity or MalformedManifest.
func Build(source ManifestSource, opts Options) (*Registry, error) {
	opts = opts.withDefaults()

	r := &Registry{
		blocks:         map[string]*manifest.BlockSpec{},
		graphs:         map[string]*manifest.GraphSpec{},
		moduleVersions: map[manifest.Namespace][]*manifest.Version{},
		log:            opts.Logger,
	}
	cache, err := lru.New[resolveKey, *manifest.Version](opts.VersionCacheSize)
	if err != nil {
		return nil, fmt.Errorf("registry: building version cache: %w", err)
	}
	r.resolveCache = cache

	modules, err := source.ListModules()
	if err != nil {
		return nil, malformedErr("", "listing modules: "+err.Error())
	}

	seenModuleVersion := map[string]bool{}

	for _, module := range modules {
		versions, err := source.ListVersions(module)
		if err != nil {
			return nil, malformedErr(module.String(), "listing versions: "+err.Error())
		}
		for _, v := range versions {
			key := module.String() + "@" + v.String()
			if seenModuleVersion[key] {
				return nil, dupModuleErr(key, "module version already loaded")
			}
			seenModuleVersion[key] = true
			r.moduleVersions[module] = append(r.moduleVersions[module], v)

			blockNames, err := source.ListBlockNames(module, v)
			if err != nil {
				return nil, malformedErr(key, "listing blocks: "+err.Error())
			}
			for _, name := range blockNames {
				b, err := source.LoadBlock(module, v, name)
				if err != nil {
					return nil, malformedErr(key+"/"+name, "loading block: "+err.Error())
				}
				if err := r.addBlock(b); err != nil {
					return nil, err
				}
			}

			graphNames, err := source.ListGraphNames(module, v)
			if err != nil {
				return nil, malformedErr(key, "listing graphs: "+err.Error())
			}
			for _, name := range graphNames {
				g, err := source.LoadGraph(module, v, name)
				if err != nil {
					return nil, malformedErr(key+"/"+name, "loading graph: "+err.Error())
				}
				if err := r.addGraph(g); err != nil {
					return nil, err
				}
			}
		}
	}

	for module, versions := range r.moduleVersions {
		sort.Sort(sort.Reverse(versionSlice(versions)))
		r.moduleVersions[module] = versions
	}

	r.log.Info("registry built", log.Int("blocks", len(r.blocks)), log.Int("graphs", len(r.graphs)), log.Int("modules", len(modules)))
	return r, nil
}

type versionSlice []*manifest.Version

func (s versionSlice) Len() int           { return len(s) }
func (s versionSlice) Less(i, j int) bool { return s[i].LessThan(s[j]) }
func (s versionSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

func (r *Registry) addBlock(b *manifest.BlockSpec) error {
	key := b.ID.String()
	if _, exists := r.blocks[key]; exists {
		return dupEntityErr(key, "block already present in registry")
	}
	r.blocks[key] = b
	return nil
}

func (r *Registry) addGraph(g *manifest.GraphSpec) error {
	key := g.ID.String()
	if _, exists := r.graphs[key]; exists {
		return dupEntityErr(key, "graph already present in registry")
	}
	r.graphs[key] = g
	return nil
}

// Block returns the block with the given fully qualified id, if loaded.
func (r *Registry) Block(id manifest.FullyQualifiedId) (*manifest.BlockSpec, bool) {
	b, ok := r.blocks[id.String()]
	return b, ok
}

// Graph returns the graph with the given fully qualified id, if loaded.
func (r *Registry) Graph(id manifest.FullyQualifiedId) (*manifest.GraphSpec, bool) {
	g, ok := r.graphs[id.String()]
	return g, ok
}

// Blocks returns every loaded block, in no particular order.
func (r *Registry) Blocks() []*manifest.BlockSpec {
	out := make([]*manifest.BlockSpec, 0, len(r.blocks))
	for _, b := range r.blocks {
		out = append(out, b)
	}
	return out
}

// Graphs returns every loaded graph, in no particular order.
func (r *Registry) Graphs() []*manifest.GraphSpec {
	out := make([]*manifest.GraphSpec, 0, len(r.graphs))
	for _, g := range r.graphs {
		out = append(out, g)
	}
	return out
}

// Resolve returns the greatest Version of module satisfying req, or
// NoMatchingVersion.
func (r *Registry) Resolve(module manifest.Namespace, req *manifest.VersionReq) (*manifest.Version, error) {
	key := resolveKey{module: module, req: req.String()}

	r.mu.Lock()
	if v, ok := r.resolveCache.Get(key); ok {
		r.mu.Unlock()
		return v, nil
	}
	r.mu.Unlock()

	versions := r.moduleVersions[module]
	for _, v := range versions {
		if req.Check(v) {
			r.mu.Lock()
			r.resolveCache.Add(key, v)
			r.mu.Unlock()
			return v, nil
		}
	}
	return nil, noMatchErr(module.String(), "no version satisfies "+req.String())
}

package merge

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/weldkit/go-stepweld/assembly"
	"github.com/weldkit/go-stepweld/step"
)

// Resolver maps a link string to a byte stream. Path resolution, URL
// handling, and caching are the caller's concern; the driver passes
// link strings through unchanged.
type Resolver func(link string) (io.ReadCloser, error)

// FileResolver resolves links as file paths relative to dir.
func FileResolver(dir string) Resolver {
	return func(link string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, link))
	}
}

// Options configure a merge run.
type Options struct {
	// Meta fills the FILE_NAME header of the output. A zero
	// Timestamp is replaced with the current time.
	Meta FileMeta

	// Workers bounds the parallel parsing of linked files. At most
	// one worker (the default) parses lazily during the assembly
	// walk; more prefetch in parallel while absorption stays
	// serialized in depth-first order.
	Workers int

	// Logger receives warnings and debug output. Nil discards them.
	Logger *zerolog.Logger
}

// Merge validates the assembly tree, builds the merged model from it,
// resolving every link through resolve, and finalizes the header.
// Cancellation is observed between files, never within a parse.
func Merge(ctx context.Context, tree *assembly.Tree, resolve Resolver, opts Options) (*step.Model, error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}

	parsed := make(map[string]*step.Model)
	if opts.Workers > 1 {
		if err := prefetch(ctx, tree, resolve, opts.Workers, parsed); err != nil {
			return nil, err
		}
	}

	m := New(log)
	absorbing := make(map[string]bool)
	load := func(link string) (*step.Model, error) {
		if err := ctx.Err(); err != nil {
			return nil, &LinkError{Link: link, Err: err}
		}
		// Links live on leaf nodes, so no ancestor of the current
		// node can hold one; a hit here means the resolver looped
		// back into a file still being absorbed.
		if absorbing[link] {
			return nil, &LinkError{Link: link, Err: ErrLinkCycle}
		}
		absorbing[link] = true
		defer delete(absorbing, link)

		if src, ok := parsed[link]; ok {
			return src, nil
		}
		return parseLink(resolve, link)
	}
	if err := m.BuildAssembly(tree, load); err != nil {
		return nil, err
	}

	meta := opts.Meta
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	m.Finalize(meta)

	log.Debug().
		Int("nodes", len(tree.Nodes)).
		Int("entities", m.Model().Len()).
		Int("placements", m.Placements()).
		Msg("assembly merged")
	return m.Model(), nil
}

// prefetch parses every distinct linked file with a bounded worker
// group. Two nodes linking the same file share one parsed model;
// absorption still produces two disjoint copies.
func prefetch(ctx context.Context, tree *assembly.Tree, resolve Resolver, workers int, parsed map[string]*step.Model) error {
	var links []string
	seen := make(map[string]bool)
	for _, n := range tree.Nodes {
		if n.Link != "" && !seen[n.Link] {
			seen[n.Link] = true
			links = append(links, n.Link)
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, link := range links {
		link := link
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &LinkError{Link: link, Err: err}
			}
			src, err := parseLink(resolve, link)
			if err != nil {
				return err
			}
			mu.Lock()
			parsed[link] = src
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func parseLink(resolve Resolver, link string) (*step.Model, error) {
	rc, err := resolve(link)
	if err != nil {
		return nil, &LinkError{Link: link, Err: err}
	}
	defer rc.Close()
	src, err := step.ParseReader(rc)
	if err != nil {
		return nil, &LinkError{Link: link, Err: err}
	}
	return src, nil
}

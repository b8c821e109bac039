package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/MusicFlow-app/HandFlow/pkg/cache"
	"github.com/MusicFlow-app/HandFlow/pkg/errors"
	"github.com/MusicFlow-app/HandFlow/pkg/handpan"
	"github.com/MusicFlow-app/HandFlow/pkg/render"
	"github.com/MusicFlow-app/HandFlow/pkg/score"
	"github.com/MusicFlow-app/HandFlow/pkg/score/mscz"
	"github.com/MusicFlow-app/HandFlow/pkg/tablature"
	"github.com/MusicFlow-app/HandFlow/pkg/transpose"
)

// Runner executes pipeline stages against a shared cache. The CLI and
// the server both compile through a Runner, so cache keys and hit
// semantics never diverge between the two.
//
// A Runner holds no per-run state; one instance serves concurrent calls
// with independent options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner wires cache, keyer, and logger into a Runner. Nil arguments
// fall back to the null cache, the default key scheme, and the package
// default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	r := &Runner{Cache: c, Keyer: keyer, Logger: logger}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	if r.Keyer == nil {
		r.Keyer = cache.NewDefaultKeyer()
	}
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	return r
}

// Execute runs the full pipeline: decode the archive, resolve the
// transposition and assemble the tablature, then render every requested
// format. Each stage consults the cache before doing any work.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.ensureLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	decodeStart := time.Now()
	doc, decodeHit, err := r.DecodeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	result.Document = doc
	result.DocHash = cache.Hash(opts.Archive)
	result.Stats.DecodeTime = time.Since(decodeStart)
	result.Stats.Parts = len(doc.Parts)
	result.Stats.Degraded = doc.Degraded
	result.CacheInfo.DecodeHit = decodeHit

	r.Logger.Info("decoded score",
		"title", doc.Meta.Title,
		"parts", len(doc.Parts),
		"degraded", doc.Degraded,
		"duration", result.Stats.DecodeTime)

	// The tablature embeds its resolution metadata, so resolution and
	// assembly cache as a single stage.
	resolveStart := time.Now()
	tab, tabHit, err := r.AssembleWithCacheInfo(ctx, doc, result.DocHash, opts)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	result.Tablature = tab
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.Measures = len(tab.Measures)
	result.Stats.Events = countEvents(tab)
	result.CacheInfo.TablatureHit = tabHit

	in, total := tab.InScaleCount()
	r.Logger.Info("resolved transposition",
		"scale", tab.Layout.String(),
		"offset", tab.Offset,
		"coverage", tab.Coverage,
		"auto", tab.Auto,
		"in_scale", fmt.Sprintf("%d/%d", in, total),
		"duration", result.Stats.ResolveTime)

	renderStart := time.Now()
	outputs, renderHit, err := r.RenderWithCacheInfo(ctx, tab, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Outputs = outputs
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered tablature",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// DecodeWithCacheInfo unpacks and parses the archive, reporting whether
// the document came from cache. Refresh skips the read but the fresh
// document is still written back.
func (r *Runner) DecodeWithCacheInfo(ctx context.Context, opts Options) (*score.Document, bool, error) {
	r.ensureLogger(&opts)
	if err := opts.ValidateForDecode(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.DocKey(cache.Hash(opts.Archive))
	if !opts.Refresh {
		var doc score.Document
		if r.fromCache(ctx, key, &doc) {
			opts.Logger.Debug("score served from cache", "key", key)
			return &doc, true, nil
		}
	}

	doc, err := mscz.Decode(opts.Archive)
	if err != nil {
		return nil, false, err
	}
	r.toCache(ctx, key, doc, cache.TTLScore)
	return doc, false, nil
}

// Decode is DecodeWithCacheInfo without the hit flag.
func (r *Runner) Decode(ctx context.Context, opts Options) (*score.Document, error) {
	doc, _, err := r.DecodeWithCacheInfo(ctx, opts)
	return doc, err
}

// AssembleWithCacheInfo resolves the transposition and assembles the
// annotated tablature, reporting whether it came from cache. docHash
// names the archive the document was decoded from and scopes the cache
// key.
func (r *Runner) AssembleWithCacheInfo(ctx context.Context, doc *score.Document, docHash string, opts Options) (*tablature.Document, bool, error) {
	r.ensureLogger(&opts)
	if err := opts.ValidateForResolve(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.TablatureKey(docHash, opts.TablatureKeyOpts())
	if !opts.Refresh {
		var tab tablature.Document
		if r.fromCache(ctx, key, &tab) {
			opts.Logger.Debug("tablature served from cache", "key", key)
			return &tab, true, nil
		}
	}

	layout, err := handpan.Default().Lookup(opts.Scale, opts.Notes)
	if err != nil {
		return nil, false, err
	}
	part, err := doc.Part(opts.Part)
	if err != nil {
		return nil, false, err
	}
	res, err := transpose.Resolve(part.VoiceEvents(opts.Voice), layout, transpose.Mode(opts.Mode), opts.Offset)
	if err != nil {
		return nil, false, err
	}
	tab, err := tablature.Assemble(doc, res, tablature.Options{
		Part:            opts.Part,
		Voice:           opts.Voice,
		PlayOnlyInScale: opts.PlayOnlyInScale,
	})
	if err != nil {
		return nil, false, err
	}

	r.toCache(ctx, key, tab, cache.TTLTablature)
	return tab, false, nil
}

// Assemble is AssembleWithCacheInfo without the hit flag.
func (r *Runner) Assemble(ctx context.Context, doc *score.Document, docHash string, opts Options) (*tablature.Document, error) {
	tab, _, err := r.AssembleWithCacheInfo(ctx, doc, docHash, opts)
	return tab, err
}

// RenderWithCacheInfo renders the requested formats, reporting whether
// every artifact came from cache. Artifacts are keyed by the content of
// the assembled tablature, so identical tablatures share renders across
// uploads.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, tab *tablature.Document, opts Options) (map[string][]byte, bool, error) {
	r.ensureLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	tabData, err := json.Marshal(tab)
	if err != nil {
		return nil, false, fmt.Errorf("serialize tablature for cache key: %w", err)
	}
	tabHash := cache.Hash(tabData)

	if !opts.Refresh {
		if cached := r.cachedArtifacts(ctx, tabHash, opts); cached != nil {
			opts.Logger.Debug("renders served from cache", "formats", opts.Formats)
			return cached, true, nil
		}
	}

	rendered, err := renderFormats(tab, opts.Formats)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(tabHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the hit flag.
func (r *Runner) Render(ctx context.Context, tab *tablature.Document, opts Options) (map[string][]byte, error) {
	outputs, _, err := r.RenderWithCacheInfo(ctx, tab, opts)
	return outputs, err
}

// Close closes the underlying cache.
func (r *Runner) Close() error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}

// ensureLogger defaults opts.Logger to the runner's own.
func (r *Runner) ensureLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// cachedArtifacts returns all requested formats from cache, or nil when
// any one is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, tabHash string, opts Options) map[string][]byte {
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(tabHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			return nil
		}
		out[format] = data
	}
	return out
}

// fromCache loads the JSON entry under key into v. Undecodable or
// missing entries report false.
func (r *Runner) fromCache(ctx context.Context, key string, v any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// toCache stores v under key as JSON. Marshal and write failures are
// dropped; a pipeline run never fails on cache trouble.
func (r *Runner) toCache(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = r.Cache.Set(ctx, key, data, ttl)
}

func renderFormats(tab *tablature.Document, formats []string) (map[string][]byte, error) {
	outputs := make(map[string][]byte, len(formats))
	for _, format := range formats {
		switch format {
		case FormatHTML:
			outputs[format] = render.RenderMeasures(tab)
		case FormatJSON:
			data, err := render.RenderJSON(tab)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render json")
			}
			outputs[format] = data
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"invalid format %q (must be one of: html, json)", format)
		}
	}
	return outputs, nil
}

func countEvents(tab *tablature.Document) int {
	n := 0
	for _, m := range tab.Measures {
		n += len(m.Events)
	}
	return n
}

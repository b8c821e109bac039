// Package pipeline turns uploaded .mscz archives into rendered handpan
// tablature. The CLI and the web server both compile through this
// package, so selection handling and caching behave identically at both
// boundaries.
//
// # Stages
//
// A run moves through three cached stages:
//
//   - Decode unpacks the archive and parses the score into the neutral
//     document model.
//   - Assemble resolves the transposition against the chosen drum and
//     annotates every event with its placement.
//   - Render emits the requested formats (HTML fragment, JSON).
//
// Stage keys are content addressed: re-uploading the same file, or
// repeating a generate request with the same selections, serves straight
// from cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Archive: archiveBytes,
//	    Scale:   "D Kurd",
//	    Notes:   9,
//	})
//	if err != nil {
//	    return err
//	}
//	page := result.Outputs[pipeline.FormatHTML]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/MusicFlow-app/HandFlow/pkg/cache"
	"github.com/MusicFlow-app/HandFlow/pkg/errors"
	"github.com/MusicFlow-app/HandFlow/pkg/score"
	"github.com/MusicFlow-app/HandFlow/pkg/tablature"
	"github.com/MusicFlow-app/HandFlow/pkg/transpose"
)

// Default selections applied when options leave them unset.
const (
	// DefaultScale is the drum most scores target.
	DefaultScale = "D Kurd"

	// DefaultNotes is the most common drum size.
	DefaultNotes = 9

	// DefaultMode resolves the transposition automatically.
	DefaultMode = string(transpose.ModeAuto)
)

// Output formats the render stage can emit.
const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// ValidFormats holds every format ValidateFormat accepts.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatJSON: true,
}

// Options contains all configuration for the compile pipeline.
// The struct supports JSON serialization for generate requests; the
// archive itself arrives out of band (multipart upload or file read).
type Options struct {
	// Decode options
	Archive []byte `json:"-"`

	// Selection options
	Part  int `json:"part,omitempty"`
	Voice int `json:"voice,omitempty"`

	// Resolution options
	Scale           string `json:"scale,omitempty"`
	Notes           int    `json:"notes,omitempty"`
	Mode            string `json:"mode,omitempty"`   // auto or manual
	Offset          int    `json:"offset,omitempty"` // manual mode only
	PlayOnlyInScale bool   `json:"play_only_inscale,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime wiring, never serialized.
	Refresh bool        `json:"refresh,omitempty"` // skip cache reads
	Logger  *log.Logger `json:"-"`

	// validated records that ValidateAndSetDefaults already ran.
	validated bool
}

// Result carries everything a pipeline run produced.
type Result struct {
	// Document is the decoded score.
	Document *score.Document

	// DocHash is the content hash of the archive, usable as a handle for
	// follow-up requests against the same upload.
	DocHash string

	// Tablature is the assembled document with its resolution metadata.
	Tablature *tablature.Document

	// Outputs holds the rendered artifacts keyed by format.
	Outputs map[string][]byte

	// Stats describes what the run did and how long each stage took.
	Stats Stats

	// CacheInfo records which stages were served from cache.
	CacheInfo CacheInfo
}

// Stats summarizes one pipeline run.
type Stats struct {
	Parts    int // parts in the decoded score
	Degraded int // events the decoder downgraded to rests
	Measures int // measures in the assembled tablature
	Events   int // events in the assembled tablature

	DecodeTime  time.Duration
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo records per-stage cache hits for one run.
type CacheInfo struct {
	DecodeHit    bool // whether the decoded score came from cache
	TablatureHit bool // whether the assembled tablature came from cache
	RenderHit    bool // whether all artifacts came from cache
}

// ValidateFormat rejects formats outside ValidFormats.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format %q (must be one of: html, json)", format)
	}
	return nil
}

// ValidateFormats applies ValidateFormat to every entry.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a resolution mode is valid.
func ValidateMode(mode string) error {
	switch transpose.Mode(mode) {
	case transpose.ModeAuto, transpose.ModeManual:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput,
		"invalid mode %q (must be auto or manual)", mode)
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForDecode(); err != nil {
		return err
	}
	if err := o.ValidateForResolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForDecode checks required fields for decoding.
func (o *Options) ValidateForDecode() error {
	if len(o.Archive) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "archive is required")
	}
	if o.Part < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "part cannot be negative, got %d", o.Part)
	}
	if err := errors.ValidateVoice(o.Voice); err != nil {
		return err
	}
	o.setLoggerDefault()
	return nil
}

// SetResolveDefaults applies the default drum and mode.
func (o *Options) SetResolveDefaults() {
	if o.Scale == "" {
		o.Scale = DefaultScale
	}
	if o.Notes == 0 {
		o.Notes = DefaultNotes
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	o.setLoggerDefault()
}

// ValidateForResolve validates and sets defaults for resolution.
func (o *Options) ValidateForResolve() error {
	o.SetResolveDefaults()
	if err := errors.ValidateScaleName(o.Scale); err != nil {
		return err
	}
	if err := errors.ValidateNoteCount(o.Notes); err != nil {
		return err
	}
	return ValidateMode(o.Mode)
}

// SetRenderDefaults applies the default output format.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	o.setLoggerDefault()
}

// ValidateForRender fills the default format and checks the list.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// TablatureKeyOpts returns cache key options for the assemble stage.
func (o *Options) TablatureKeyOpts() cache.TablatureKeyOpts {
	return cache.TablatureKeyOpts{
		Part:            o.Part,
		Voice:           o.Voice,
		Scale:           o.Scale,
		Notes:           o.Notes,
		Mode:            o.Mode,
		Offset:          o.Offset,
		PlayOnlyInScale: o.PlayOnlyInScale,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

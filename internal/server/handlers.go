package server

import (
	"encoding/json"
	stderrors "errors"
	"html/template"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/MusicFlow-app/HandFlow/pkg/errors"
	"github.com/MusicFlow-app/HandFlow/pkg/pipeline"
	"github.com/MusicFlow-app/HandFlow/pkg/render"
	"github.com/MusicFlow-app/HandFlow/pkg/store"
	"github.com/MusicFlow-app/HandFlow/pkg/transpose"
)

// handleIndex serves the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "index", indexPage{ScaleCount: len(s.scales.Layouts())})
}

// handleHealthz reports liveness for load balancers and uptime checks.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// handleUpload accepts a multipart .mscz upload, decodes it once to learn
// its parts, stores it under a fresh UUID and shows the selection form.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())

	file, header, err := r.FormFile("file")
	if err != nil {
		s.failHTML(w, uploadErr(err, s.cfg.MaxUploadMB))
		return
	}
	defer file.Close()

	if err := errors.ValidateScoreFilename(header.Filename); err != nil {
		s.failHTML(w, err)
		return
	}

	archive, err := io.ReadAll(file)
	if err != nil {
		s.failHTML(w, uploadErr(err, s.cfg.MaxUploadMB))
		return
	}

	doc, err := s.runner.Decode(r.Context(), pipeline.Options{Archive: archive, Logger: s.logger})
	if err != nil {
		s.failHTML(w, err)
		return
	}

	sc := store.New(header.Filename, archive, doc.Meta, store.PartInfos(doc), s.cfg.ScoreTTL)
	if err := s.store.Set(r.Context(), sc); err != nil {
		s.failHTML(w, errors.Wrap(errors.ErrCodeInternal, err, "failed to store upload"))
		return
	}

	s.logger.Info("stored upload",
		"id", sc.ID,
		"filename", sc.Filename,
		"title", sc.Meta.Title,
		"parts", len(sc.Parts),
		"expires_at", sc.ExpiresAt)

	s.renderPage(w, "upload", uploadPage{
		Score:  sc,
		Scales: scaleGroups(s.scales),
		Legend: template.HTML(render.LegendHTML()),
	})
}

// generateForm is the decoded /generate request.
type generateForm struct {
	ScoreID         string
	Part            int
	Voice           int
	Scale           string
	Notes           int
	Mode            string
	Offset          int
	PlayOnlyInScale bool
	Format          string
}

// handleGenerate exchanges a stored score handle plus selections for a
// compiled tablature: an HTML page by default, the raw document for
// format=json.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	form, err := parseGenerateForm(r)
	if err != nil {
		s.fail(w, form.Format, err)
		return
	}

	sc, err := s.store.Get(r.Context(), form.ScoreID)
	if err != nil {
		s.fail(w, form.Format, scoreLookupErr(err, form.ScoreID))
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Archive:         sc.Archive,
		Part:            form.Part,
		Voice:           form.Voice,
		Scale:           form.Scale,
		Notes:           form.Notes,
		Mode:            form.Mode,
		Offset:          form.Offset,
		PlayOnlyInScale: form.PlayOnlyInScale,
		Formats:         []string{form.Format},
		Logger:          s.logger,
	})
	if err != nil {
		s.fail(w, form.Format, err)
		return
	}

	if form.Format == pipeline.FormatJSON {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(result.Outputs[pipeline.FormatJSON])
		return
	}

	tab := result.Tablature
	s.renderPage(w, "generate", generatePage{
		Title:       pageTitle(sc.Meta.Title, sc.Filename),
		PartName:    tab.Part,
		Scale:       tab.Layout.String(),
		ScaleNotes:  strings.Join(tab.Layout.NoteNames(), ", "),
		Offset:      tab.Offset,
		Auto:        tab.Auto,
		CoveragePct: math.Round(tab.Coverage*1000) / 10,
		Measures:    template.HTML(result.Outputs[pipeline.FormatHTML]),
	})
}

// parseGenerateForm decodes and validates the /generate form fields. The
// returned form carries the output format even on error so the failure
// can be reported in the caller's requested encoding.
func parseGenerateForm(r *http.Request) (generateForm, error) {
	form := generateForm{Format: pipeline.FormatHTML}

	if err := r.ParseForm(); err != nil {
		return form, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed form body")
	}

	if f := r.PostFormValue("format"); f != "" {
		if err := pipeline.ValidateFormat(f); err != nil {
			return form, err
		}
		form.Format = f
	}

	form.ScoreID = r.PostFormValue("score")
	if form.ScoreID == "" {
		return form, errors.New(errors.ErrCodeInvalidInput, "score handle is required")
	}

	var err error
	if form.Part, err = formInt(r, "part", 0); err != nil {
		return form, err
	}
	if form.Voice, err = formInt(r, "voice", 0); err != nil {
		return form, err
	}

	// The scale select posts "<name>|<notes>"; programmatic callers may
	// send the two fields separately instead.
	scale := r.PostFormValue("scale")
	if name, notes, ok := strings.Cut(scale, "|"); ok {
		form.Scale = name
		if form.Notes, err = strconv.Atoi(notes); err != nil {
			return form, errors.New(errors.ErrCodeInvalidInput, "invalid scale selection %q", scale)
		}
	} else {
		form.Scale = scale
		if form.Notes, err = formInt(r, "notes", 0); err != nil {
			return form, err
		}
	}

	// The page posts an auto_transpose checkbox; "mode" wins if both are
	// present so API callers can be explicit.
	switch {
	case r.PostFormValue("mode") != "":
		form.Mode = r.PostFormValue("mode")
	case r.PostFormValue("auto_transpose") != "":
		form.Mode = string(transpose.ModeAuto)
	default:
		form.Mode = string(transpose.ModeManual)
	}
	if form.Offset, err = formInt(r, "transpose", 0); err != nil {
		return form, err
	}

	form.PlayOnlyInScale = r.PostFormValue("play_only_inscale") == "1"
	return form, nil
}

// formInt parses an optional integer field, applying def when absent.
func formInt(r *http.Request, field string, def int) (int, error) {
	v := r.PostFormValue(field)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "field %q must be an integer, got %q", field, v)
	}
	return n, nil
}

// pageTitle prefers the score's work title, falling back to the filename.
func pageTitle(title, filename string) string {
	if title != "" {
		return title
	}
	return filename
}

// uploadErr classifies multipart read failures: the body cap trips
// *http.MaxBytesError, everything else is a malformed upload.
func uploadErr(err error, maxMB int64) error {
	var mbe *http.MaxBytesError
	if stderrors.As(err, &mbe) {
		return errors.New(errors.ErrCodeUploadTooLarge, "upload exceeds the %d MB limit", maxMB)
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "expected a multipart upload with a \"file\" field")
}

// scoreLookupErr maps store sentinels onto the boundary error code. An
// expired handle reads differently from one that never existed.
func scoreLookupErr(err error, id string) error {
	switch {
	case stderrors.Is(err, store.ErrExpired):
		return errors.Wrap(errors.ErrCodeScoreNotFound, err, "upload %s expired, please upload the score again", id)
	case stderrors.Is(err, store.ErrNotFound):
		return errors.Wrap(errors.ErrCodeScoreNotFound, err, "no uploaded score %s", id)
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to load score %s", id)
	}
}

// httpStatus maps error codes onto HTTP status codes.
func httpStatus(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeScoreNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUploadTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeArchiveUnreadable,
		errors.ErrCodeScoreUnparsable,
		errors.ErrCodeUnknownLayout,
		errors.ErrCodeInvalidPartSelection,
		errors.ErrCodeTransposeOutOfRange,
		errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail reports an error in the encoding the request asked for.
func (s *Server) fail(w http.ResponseWriter, format string, err error) {
	if format == pipeline.FormatJSON {
		s.failJSON(w, err)
		return
	}
	s.failHTML(w, err)
}

// failHTML writes a plain error response for page requests.
func (s *Server) failHTML(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	s.logError(status, err)
	http.Error(w, errors.UserMessage(err), status)
}

// failJSON writes a structured error envelope for API callers.
func (s *Server) failJSON(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	s.logError(status, err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    string(errors.GetCode(err)),
			"message": errors.UserMessage(err),
		},
	})
}

// logError keeps client mistakes at warn level; only 5xx is our bug.
func (s *Server) logError(status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
		return
	}
	s.logger.Warn("request rejected", "status", status, "error", err)
}

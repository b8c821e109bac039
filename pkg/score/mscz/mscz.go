// Package mscz decodes MuseScore archives (.mscz) and score markup (.mscx)
// into the instrument-neutral score model.
//
// A .mscz file is a zip container holding one .mscx entry, the XML score
// markup, next to thumbnails and container metadata. [Decode] accepts either
// the archive bytes or raw markup and produces a [score.Document]. Document
// level failures return ARCHIVE_UNREADABLE or SCORE_UNPARSABLE; individual
// events the parser cannot interpret degrade to rests of equal duration and
// are counted on the document instead of failing the run.
package mscz

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	"github.com/MusicFlow-app/HandFlow/pkg/errors"
	"github.com/MusicFlow-app/HandFlow/pkg/score"
)

// MaxUncompressedBytes caps the total and per-entry uncompressed size of an
// uploaded archive. Protects against zip bombs.
const MaxUncompressedBytes = 100 << 20

// IsArchive reports whether the payload starts with the zip magic.
// Raw .mscx uploads are XML and fail this check.
func IsArchive(data []byte) bool {
	return len(data) >= 2 && data[0] == 'P' && data[1] == 'K'
}

// ExtractScore locates the score markup inside an archive payload and
// returns its bytes. Raw markup payloads pass through unchanged. Returns
// ARCHIVE_UNREADABLE when the payload is neither a readable archive with a
// .mscx entry nor score markup.
func ExtractScore(data []byte) ([]byte, error) {
	if !IsArchive(data) {
		if looksLikeMarkup(data) {
			return data, nil
		}
		return nil, errors.New(errors.ErrCodeArchiveUnreadable, "payload is not a score archive")
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArchiveUnreadable, err, "open archive")
	}

	var total uint64
	for _, f := range zr.File {
		if f.UncompressedSize64 > MaxUncompressedBytes {
			return nil, errors.New(errors.ErrCodeArchiveUnreadable,
				"archive entry %q exceeds %d bytes uncompressed", f.Name, int64(MaxUncompressedBytes))
		}
		total += f.UncompressedSize64
		if total > MaxUncompressedBytes {
			return nil, errors.New(errors.ErrCodeArchiveUnreadable,
				"archive exceeds %d bytes uncompressed", int64(MaxUncompressedBytes))
		}
	}

	entry := scoreEntry(zr)
	if entry == nil {
		return nil, errors.New(errors.ErrCodeArchiveUnreadable, "archive has no .mscx score entry")
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArchiveUnreadable, err, "open score entry %q", entry.Name)
	}
	defer rc.Close()

	markup, err := io.ReadAll(io.LimitReader(rc, MaxUncompressedBytes+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArchiveUnreadable, err, "read score entry %q", entry.Name)
	}
	if len(markup) > MaxUncompressedBytes {
		return nil, errors.New(errors.ErrCodeArchiveUnreadable,
			"score entry %q exceeds %d bytes", entry.Name, int64(MaxUncompressedBytes))
	}
	return markup, nil
}

// scoreEntry picks the .mscx entry to decode. Root-level entries win over
// nested ones (MuseScore 4 archives carry excerpt scores under Excerpts/).
func scoreEntry(zr *zip.Reader) *zip.File {
	var nested *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(f.Name), ".mscx") {
			continue
		}
		if !strings.Contains(f.Name, "/") {
			return f
		}
		if nested == nil {
			nested = f
		}
	}
	return nested
}

func looksLikeMarkup(data []byte) bool {
	head := bytes.TrimLeft(data, " \t\r\n\uFEFF")
	return bytes.HasPrefix(head, []byte("<?xml")) || bytes.HasPrefix(head, []byte("<museScore"))
}

// Decode parses an archive or raw markup payload into a score document.
func Decode(data []byte) (*score.Document, error) {
	markup, err := ExtractScore(data)
	if err != nil {
		return nil, err
	}
	return DecodeScore(bytes.NewReader(markup))
}

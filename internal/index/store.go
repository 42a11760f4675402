/*
Responsibilities
- Load the persisted Index, substituting an empty structure when the
  stored configHash doesn't match the current run's
- Write the Index atomically with respect to readers: stage to a temp
  file in the destination directory, then rename into place
- Select compact vs. indented serialization and canonical-vs-sibling
  destination path from config.RuntimeMode, never from os.Getenv
  directly

Grounded on the teacher's internal/storage/sink.go atomic-write idiom
(fileutil.EnsureDir + os.WriteFile + os.Rename), repointed from
per-page Markdown files at a single JSON document.
*/
package index

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/llmsforge/ingest/internal/config"
	"github.com/llmsforge/ingest/internal/metadata"
	"github.com/llmsforge/ingest/pkg/failure"
	"github.com/llmsforge/ingest/pkg/fileutil"
)

type Store struct {
	metadataSink metadata.MetadataSink
}

func NewStore(metadataSink metadata.MetadataSink) Store {
	return Store{metadataSink: metadataSink}
}

// Load reads canonicalPath and returns its Index. A missing or
// unreadable file, or one whose stored configHash doesn't match
// configHash, yields Empty(configHash, now) — never an error. Per §4.10,
// a configHash mismatch preserves the current run's hash going forward,
// which Empty already stamps.
func (s *Store) Load(canonicalPath string, configHash string, now time.Time) Index {
	raw, err := os.ReadFile(canonicalPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.recordError(&IndexError{
				Message: err.Error(), Retryable: false,
				Cause: ErrCauseReadFailure, Path: canonicalPath,
			})
		}
		return Empty(configHash, now)
	}

	var stored Index
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.recordError(&IndexError{
			Message: err.Error(), Retryable: false,
			Cause: ErrCauseParseFailure, Path: canonicalPath,
		})
		return Empty(configHash, now)
	}

	if stored.ConfigHash != configHash {
		return Empty(configHash, now)
	}
	if stored.Sites == nil {
		stored.Sites = make(map[string]SiteIndex)
	}
	return stored
}

// Write serializes idx per mode.MinifyIndex and atomically writes it to
// canonicalPath in CI mode, or to a sibling temp path otherwise (§4.10,
// §6 "Environment variables"). The write either fully succeeds or
// leaves whatever was previously at the destination untouched.
func (s *Store) Write(canonicalPath string, idx Index, mode config.RuntimeMode) failure.ClassifiedError {
	destPath := canonicalPath
	if !mode.CI {
		destPath = SiblingTempPath(canonicalPath)
	}

	var data []byte
	var err error
	if mode.MinifyIndex {
		data, err = json.Marshal(idx)
	} else {
		data, err = json.MarshalIndent(idx, "", "  ")
	}
	if err != nil {
		idxErr := &IndexError{Message: err.Error(), Retryable: false, Cause: ErrCauseParseFailure, Path: destPath}
		s.recordError(idxErr)
		return idxErr
	}

	if writeErr := writeAtomic(destPath, data); writeErr != nil {
		var idxErr *IndexError
		errors.As(writeErr, &idxErr)
		s.recordError(idxErr)
		return idxErr
	}

	s.metadataSink.RecordArtifact(metadata.ArtifactIndex, destPath, []metadata.Attribute{
		metadata.NewAttr(metadata.AttrWritePath, destPath),
	})
	return nil
}

func (s *Store) recordError(err *IndexError) {
	s.metadataSink.RecordError(
		time.Now(),
		"index",
		"Store",
		mapIndexErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{metadata.NewAttr(metadata.AttrWritePath, err.Path)},
	)
}

// SiblingTempPath derives the non-CI destination: the canonical path's
// basename with ".local" inserted before the extension, in the same
// directory, so a local run never overwrites a committed index.
func SiblingTempPath(canonicalPath string) string {
	dir := filepath.Dir(canonicalPath)
	base := filepath.Base(canonicalPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, name+".local"+ext)
}

// writeAtomic stages data to a temp file in path's directory, then
// renames it into place, so concurrent readers of path never observe a
// partial write.
func writeAtomic(path string, data []byte) failure.ClassifiedError {
	dir := filepath.Dir(path)
	if err := fileutil.EnsureDir(dir); err != nil {
		return &IndexError{Message: err.Error(), Retryable: false, Cause: ErrCauseWriteFailure, Path: path}
	}

	tmp, err := os.CreateTemp(dir, ".index-*.tmp")
	if err != nil {
		return &IndexError{Message: err.Error(), Retryable: false, Cause: ErrCauseWriteFailure, Path: path}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IndexError{Message: err.Error(), Retryable: false, Cause: ErrCauseWriteFailure, Path: path}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &IndexError{Message: err.Error(), Retryable: false, Cause: ErrCauseWriteFailure, Path: path}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &IndexError{Message: err.Error(), Retryable: false, Cause: ErrCauseRenameFailure, Path: path}
	}
	return nil
}

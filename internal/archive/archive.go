// Package archive stores every released schema template version.
//
// The archive is a directory holding one file per version, named
// v<version>.yaml, plus a plain-text index listing the known versions one per
// line in ascending dotted-numeric order. Archived files are byte copies of
// the template and are never rewritten: archiving an unchanged version is a
// no-op, archiving changed content under an existing version is a conflict.
package archive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/simonhull/firebird-suite/kestrel/internal/document"
	"github.com/simonhull/firebird-suite/kestrel/internal/logger"
	"github.com/simonhull/firebird-suite/kestrel/internal/template"
	"github.com/simonhull/firebird-suite/kestrel/internal/version"
)

// DefaultIndexFile is the name of the version index inside the archive
// directory.
const DefaultIndexFile = "versions.txt"

// ErrVersionNotFound is returned when a version has no archived file.
var ErrVersionNotFound = errors.New("schema version not found")

var archiveFilePattern = regexp.MustCompile(`^v(.+)\.yaml$`)

// ConflictError reports an attempt to archive changed content under a
// version that is already archived.
type ConflictError struct {
	Version string
	Path    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version %s already exists with different content (%s)", e.Version, e.Path)
}

// Outcome describes what Archive did.
type Outcome int

const (
	// Archived means a new version file was written.
	Archived Outcome = iota
	// Unchanged means the version was already archived with equal content.
	Unchanged
)

func (o Outcome) String() string {
	switch o {
	case Archived:
		return "archived"
	case Unchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Result is the outcome of a successful Archive call.
type Result struct {
	Version string
	Path    string
	Outcome Outcome
}

// Store manages an archive directory on an afero filesystem.
type Store struct {
	fs        afero.Fs
	dir       string
	indexFile string
	log       logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithIndexFile overrides the index file name.
func WithIndexFile(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.indexFile = name
		}
	}
}

// WithLogger sets the logger used for tracing archive operations.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore returns a store rooted at dir. The directory is created on the
// first Archive call.
func NewStore(fs afero.Fs, dir string, opts ...Option) *Store {
	s := &Store{
		fs:        fs,
		dir:       dir,
		indexFile: DefaultIndexFile,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithFields(logger.F("archive", dir))
	return s
}

// Dir returns the archive directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path of an archived version.
func (s *Store) Path(v string) string {
	return filepath.Join(s.dir, "v"+v+".yaml")
}

// IndexPath returns the path of the version index.
func (s *Store) IndexPath() string {
	return filepath.Join(s.dir, s.indexFile)
}

// Archive stores the template text under its version. Equal content already
// archived under that version is a no-op; different content is a
// *ConflictError.
func (s *Store) Archive(data []byte) (*Result, error) {
	tmpl, err := template.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	if _, err := version.Parse(tmpl.Version); err != nil {
		return nil, &template.SchemaShapeError{Reason: err.Error()}
	}

	// 1.0 and 1.00 are the same version; reuse whichever spelling came first.
	v, err := s.resolve(tmpl.Version)
	if err != nil {
		return nil, err
	}

	path := s.Path(v)
	result := &Result{Version: v, Path: path}

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}

	if exists {
		existing, err := document.LoadFile(s.fs, path)
		if err != nil {
			return nil, fmt.Errorf("reading existing schema: %w", err)
		}
		if !sameSchema(existing, tmpl.Root) {
			return nil, &ConflictError{Version: v, Path: path}
		}
		s.log.Debug("version already archived", logger.F("version", v))
		result.Outcome = Unchanged
	} else {
		if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
		if err := afero.WriteFile(s.fs, path, data, 0644); err != nil {
			return nil, fmt.Errorf("archiving schema: %w", err)
		}
		s.log.Info("archived schema", logger.F("version", v), logger.F("path", path))
		result.Outcome = Archived
	}

	if err := s.addToIndex(v); err != nil {
		return nil, err
	}
	return result, nil
}

// resolve maps v to the spelling it was archived under, if any version that
// compares equal to it is archived. Otherwise v is returned unchanged.
func (s *Store) resolve(v string) (string, error) {
	want, err := version.Parse(v)
	if err != nil {
		return "", err
	}

	versions, err := s.Versions()
	if err != nil {
		return "", err
	}
	for _, existing := range versions {
		if cmp, err := version.Compare(existing, want.String()); err == nil && cmp == 0 {
			return existing, nil
		}
	}
	return want.String(), nil
}

// sameSchema compares two templates, ignoring how their versions are spelled.
func sameSchema(a, b document.Node) bool {
	return document.Equal(withoutVersion(a), withoutVersion(b))
}

func withoutVersion(n document.Node) document.Node {
	m, ok := n.(*document.Mapping)
	if !ok {
		return n
	}
	entries := make([]document.Entry, 0, m.Len())
	for _, e := range m.Entries {
		if e.Key != template.VersionField {
			entries = append(entries, e)
		}
	}
	return document.NewMapping(entries...)
}

// addToIndex inserts v into the index, keeping it sorted. An index that
// already lists v is left untouched.
func (s *Store) addToIndex(v string) error {
	versions, err := s.readIndex()
	if err != nil {
		return err
	}
	for _, existing := range versions {
		if existing == v {
			return nil
		}
	}

	sorted, err := version.Sort(append(versions, v))
	if err != nil {
		return fmt.Errorf("sorting %s: %w", s.IndexPath(), err)
	}

	content := strings.Join(sorted, "\n") + "\n"
	if err := afero.WriteFile(s.fs, s.IndexPath(), []byte(content), 0644); err != nil {
		return fmt.Errorf("writing version index: %w", err)
	}
	s.log.Debug("updated version index", logger.F("versions", len(sorted)))
	return nil
}

// readIndex returns the index entries as written, skipping blank lines. A
// missing index yields no entries.
func (s *Store) readIndex() ([]string, error) {
	data, err := afero.ReadFile(s.fs, s.IndexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading version index: %w", err)
	}

	var versions []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			versions = append(versions, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading version index: %w", err)
	}
	return versions, nil
}

// Versions lists archived versions in ascending order. The index is
// authoritative; when it is missing the archive directory is scanned for
// v<version>.yaml files instead.
func (s *Store) Versions() ([]string, error) {
	versions, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	if versions == nil {
		versions, err = s.scan()
		if err != nil {
			return nil, err
		}
	}

	sorted, err := version.Sort(versions)
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", s.dir, err)
	}
	return sorted, nil
}

func (s *Store) scan() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading archive directory: %w", err)
	}

	var versions []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := archiveFilePattern.FindStringSubmatch(entry.Name())
		if len(matches) < 2 {
			continue
		}
		if _, err := version.Parse(matches[1]); err != nil {
			s.log.Warn("skipping archive file with invalid version", logger.F("file", entry.Name()))
			continue
		}
		versions = append(versions, matches[1])
	}
	return versions, nil
}

// Latest returns the highest archived version, or false when nothing has
// been archived yet.
func (s *Store) Latest() (string, bool, error) {
	versions, err := s.Versions()
	if err != nil {
		return "", false, err
	}
	if len(versions) == 0 {
		return "", false, nil
	}
	return versions[len(versions)-1], true, nil
}

// Load reads an archived template. An unknown or malformed version is
// reported as a *document.LoadError wrapping ErrVersionNotFound.
func (s *Store) Load(v string) (*template.Template, error) {
	if _, err := version.Parse(v); err != nil {
		return nil, &document.LoadError{
			Path:  s.dir,
			Cause: fmt.Errorf("%w: %v", ErrVersionNotFound, err),
		}
	}

	resolved, err := s.resolve(v)
	if err != nil {
		return nil, &document.LoadError{Path: s.IndexPath(), Cause: err}
	}
	v = resolved

	path := s.Path(v)
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, &document.LoadError{Path: path, Cause: err}
	}
	if !exists {
		return nil, &document.LoadError{
			Path:  path,
			Cause: fmt.Errorf("%w: %s", ErrVersionNotFound, v),
		}
	}

	s.log.Debug("loading archived schema", logger.F("version", v))
	return template.Load(s.fs, path)
}

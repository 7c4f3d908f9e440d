// Package filestore persists graph documents as JSON files under a cache
// directory: {key}.json for the document and {key}_metadata.json for its
// provenance bag.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
	apperrors "github.com/fredgeoO/novel-learning-tools/pkg/errors"
)

const (
	graphDocsDir   = "graph_docs"
	metadataSuffix = "_metadata"
)

// filterKeys are the metadata entries surfaced in listings for filtering.
var filterKeys = []string{
	"novel_name", "chapter_name", "model_name", "schema_name",
	"chunk_size", "chunk_overlap", "num_ctx",
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ListEntry is one graph in a listing: its key, the filterable slice of its
// metadata, and display metadata.
type ListEntry struct {
	CacheKey string                 `json:"cache_key"`
	Filters  map[string]interface{} `json:"filters"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Store is the file-backed graph cache. A corrupt document heals itself: the
// broken files are removed and the key reads as absent afterwards. Listing
// results are cached until Invalidate is called (the change watcher does
// that on any file event).
type Store struct {
	dir    string
	logger *zap.Logger

	mu      sync.Mutex
	listing []ListEntry
	valid   bool
}

// NewStore opens (and creates if needed) the graph_docs directory under
// cacheDir.
func NewStore(cacheDir string, logger *zap.Logger) (*Store, error) {
	dir := filepath.Join(cacheDir, graphDocsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create graph cache dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the directory holding the graph files.
func (s *Store) Dir() string {
	return s.dir
}

// Invalidate drops the cached listing.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid = false
	s.listing = nil
}

func (s *Store) checkKey(key string) error {
	if !validKey.MatchString(key) || strings.Contains(key, "..") {
		return apperrors.NewValidationError(fmt.Sprintf("invalid cache key: %q", key))
	}
	return nil
}

func (s *Store) docPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) metaPath(key string) string {
	return filepath.Join(s.dir, key+metadataSuffix+".json")
}

// LoadDocument reads the document stored under key. A file that no longer
// parses is treated as damage, not data: both files are removed and the key
// reports not found.
func (s *Store) LoadDocument(key string) (*graph.Document, error) {
	if err := s.checkKey(key); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.docPath(key))
	if os.IsNotExist(err) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("graph %q", key))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("cannot read graph file").WithCause(err)
	}

	var doc graph.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Warn("removing corrupt graph cache entry",
			zap.String("cache_key", key), zap.Error(err))
		s.removeFiles(key)
		s.Invalidate()
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("graph %q", key))
	}
	if doc.Nodes == nil {
		doc.Nodes = []graph.Node{}
	}
	if doc.Edges == nil {
		doc.Edges = []graph.Edge{}
	}
	return &doc, nil
}

// LoadMetadata reads the metadata bag stored under key; a missing or corrupt
// bag reads as nil.
func (s *Store) LoadMetadata(key string) (graph.Metadata, error) {
	if err := s.checkKey(key); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.metaPath(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("cannot read metadata file").WithCause(err)
	}

	var meta graph.Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		s.logger.Warn("removing corrupt metadata file",
			zap.String("cache_key", key), zap.Error(err))
		os.Remove(s.metaPath(key))
		return nil, nil
	}
	return meta, nil
}

// SaveDocument writes the document, and the metadata bag when one is given,
// stamping the bag with a saved_at timestamp.
func (s *Store) SaveDocument(key string, doc *graph.Document, meta graph.Metadata) error {
	if err := s.checkKey(key); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.NewInternalError("cannot encode graph document").WithCause(err)
	}
	if err := writeFileAtomic(s.docPath(key), raw); err != nil {
		return apperrors.NewInternalError("cannot write graph file").WithCause(err)
	}

	if meta != nil {
		meta["saved_at"] = time.Now().UTC().Format(time.RFC3339)
		rawMeta, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return apperrors.NewInternalError("cannot encode metadata").WithCause(err)
		}
		if err := writeFileAtomic(s.metaPath(key), rawMeta); err != nil {
			return apperrors.NewInternalError("cannot write metadata file").WithCause(err)
		}
	}

	s.Invalidate()
	s.logger.Info("graph saved",
		zap.String("cache_key", key),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("edges", len(doc.Edges)))
	return nil
}

// Delete removes a graph and its metadata. It reports not found when
// neither file existed.
func (s *Store) Delete(key string) error {
	if err := s.checkKey(key); err != nil {
		return err
	}
	removed := s.removeFiles(key)
	if !removed {
		return apperrors.NewNotFoundError(fmt.Sprintf("graph %q", key))
	}
	s.Invalidate()
	s.logger.Info("graph deleted", zap.String("cache_key", key))
	return nil
}

func (s *Store) removeFiles(key string) bool {
	removed := false
	if err := os.Remove(s.docPath(key)); err == nil {
		removed = true
	}
	if err := os.Remove(s.metaPath(key)); err == nil {
		removed = true
	}
	return removed
}

// Keys returns every stored graph key.
func (s *Store) Keys() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, apperrors.NewInternalError("cannot scan graph cache").WithCause(err)
	}
	var keys []string
	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), ".json")
		if strings.HasSuffix(name, metadataSuffix) {
			continue
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys, nil
}

// ListMetadata returns one entry per graph that has a metadata bag, newest
// first. Unreadable bags are skipped with a warning. Results are cached
// until the next Invalidate.
func (s *Store) ListMetadata() ([]ListEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid {
		return s.listing, nil
	}

	files, err := filepath.Glob(filepath.Join(s.dir, "*"+metadataSuffix+".json"))
	if err != nil {
		return nil, apperrors.NewInternalError("cannot scan graph cache").WithCause(err)
	}

	type stamped struct {
		entry ListEntry
		mtime time.Time
	}
	var entries []stamped
	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			s.logger.Warn("skipping unreadable metadata file", zap.String("file", f), zap.Error(err))
			continue
		}
		var meta map[string]interface{}
		if err := json.Unmarshal(raw, &meta); err != nil {
			s.logger.Warn("skipping corrupt metadata file", zap.String("file", f), zap.Error(err))
			continue
		}

		key := strings.TrimSuffix(strings.TrimSuffix(filepath.Base(f), ".json"), metadataSuffix)
		filters := map[string]interface{}{}
		for _, fk := range filterKeys {
			if v, ok := meta[fk]; ok {
				filters[fk] = v
			}
		}
		display := map[string]interface{}{}
		if v, ok := meta["created_at"]; ok {
			display["created_at"] = v
		}

		mtime := time.Time{}
		if info, err := os.Stat(f); err == nil {
			mtime = info.ModTime()
		}
		entries = append(entries, stamped{
			entry: ListEntry{CacheKey: key, Filters: filters, Metadata: display},
			mtime: mtime,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].mtime.After(entries[j].mtime)
	})

	listing := make([]ListEntry, 0, len(entries))
	for _, e := range entries {
		listing = append(listing, e.entry)
	}
	s.listing = listing
	s.valid = true
	return listing, nil
}

// EnsureDemoGraph seeds a small sample graph when the cache holds nothing,
// so a first visit has something to open. Returns the demo key, or "" when
// graphs already exist.
func (s *Store) EnsureDemoGraph() (string, error) {
	keys, err := s.Keys()
	if err != nil {
		return "", err
	}
	if len(keys) > 0 {
		return "", nil
	}

	key := "demo_" + uuid.NewString()[:8]
	doc := demoDocument()
	meta := graph.Metadata{
		"novel_name":   "demo",
		"chapter_name": "demo",
		"model_name":   "builtin",
		"schema_name":  "demo",
		"created_at":   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.SaveDocument(key, doc, meta); err != nil {
		return "", err
	}
	s.logger.Info("seeded demo graph", zap.String("cache_key", key))
	return key, nil
}

func demoDocument() *graph.Document {
	return &graph.Document{
		Nodes: []graph.Node{
			{ID: "hero", Label: "Hero", Original: &graph.Original{Type: "Person",
				Properties: map[string]interface{}{"sequence_number": 1}}},
			{ID: "mentor", Label: "Mentor", Original: &graph.Original{Type: "Person",
				Properties: map[string]interface{}{"sequence_number": 2}}},
			{ID: "village", Label: "Village", Original: &graph.Original{Type: "Location",
				Properties: map[string]interface{}{"sequence_number": 3}}},
		},
		Edges: []graph.Edge{
			{ID: "edge_hero_mentor", From: "hero", To: "mentor",
				Original: &graph.Original{Type: "knows"}},
			{ID: "edge_hero_village", From: "hero", To: "village",
				Original: &graph.Original{Type: "located_in"}},
		},
	}
}

// writeFileAtomic writes via a temp file and rename so a crash never leaves
// a half-written document behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

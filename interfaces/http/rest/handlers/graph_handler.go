package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
	"github.com/fredgeoO/novel-learning-tools/domain/render"
	"github.com/fredgeoO/novel-learning-tools/infrastructure/filestore"
	"github.com/fredgeoO/novel-learning-tools/pkg/common"
	apperrors "github.com/fredgeoO/novel-learning-tools/pkg/errors"
)

// GraphHandler serves the graph cache API.
type GraphHandler struct {
	store     *filestore.Store
	converter *render.Converter
	validate  *validator.Validate
	logger    *zap.Logger
	maxBytes  int64
}

// NewGraphHandler creates a new graph handler.
func NewGraphHandler(store *filestore.Store, converter *render.Converter, logger *zap.Logger, maxBytes int64) *GraphHandler {
	return &GraphHandler{
		store:     store,
		converter: converter,
		validate:  validator.New(),
		logger:    logger,
		maxBytes:  maxBytes,
	}
}

// graphDataResponse is the payload of GET /api/graph-data.
type graphDataResponse struct {
	Data     *graph.Document `json:"data"`
	Physics  bool            `json:"physics"`
	Metadata graph.Metadata  `json:"metadata"`
}

// GetGraphData handles GET /api/graph-data?cache_key=&physics=.
func (h *GraphHandler) GetGraphData(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("cache_key")
	if key == "" {
		common.RespondError(w, http.StatusBadRequest, "cache_key query parameter is required")
		return
	}

	doc, err := h.store.LoadDocument(key)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	doc.Normalize(h.logger)

	physics := true
	if p := r.URL.Query().Get("physics"); p != "" {
		physics = p == "true" || p == "1"
	}

	meta, err := h.store.LoadMetadata(key)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if meta == nil {
		meta = graph.PlaceholderMetadata()
	}

	common.RespondJSON(w, http.StatusOK, graphDataResponse{
		Data:     doc,
		Physics:  physics,
		Metadata: meta,
	})
}

// putGraphRequest is the PUT body: render-form collections. Both fields must
// be present; empty arrays are valid, absent ones are not.
type putGraphRequest struct {
	Nodes *[]graph.Node `json:"nodes" validate:"required"`
	Edges *[]graph.Edge `json:"edges" validate:"required"`
}

// ReplaceGraph handles PUT /api/graph/{key}.
func (h *GraphHandler) ReplaceGraph(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req putGraphRequest
	if err := common.ParseJSONBody(w, r, &req, h.maxBytes); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("nodes and edges are required").WithCause(err))
		return
	}

	doc := h.converter.ToDocument(*req.Nodes, *req.Edges)
	doc.Normalize(h.logger)

	// An existing metadata bag survives the overwrite.
	meta, err := h.store.LoadMetadata(key)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := h.store.SaveDocument(key, doc, meta); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, nil)
}

// DeleteGraph handles DELETE /api/graph/{key}.
func (h *GraphHandler) DeleteGraph(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := h.store.Delete(key); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, nil)
}

// GetMetadata handles GET /api/graph/{key}/metadata. Unknown keys answer
// with the placeholder bag, matching what display code expects.
func (h *GraphHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	meta, err := h.store.LoadMetadata(key)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if meta == nil {
		meta = graph.PlaceholderMetadata()
	}
	common.RespondJSON(w, http.StatusOK, meta)
}

// textResponse is the payload of GET /api/graph/{key}/text.
type textResponse struct {
	Content string `json:"content"`
}

// GetText handles GET /api/graph/{key}/text?hidden_types=a,b.
func (h *GraphHandler) GetText(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	doc, err := h.store.LoadDocument(key)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	doc.Normalize(h.logger)

	var hidden []string
	if raw := r.URL.Query().Get("hidden_types"); raw != "" {
		hidden = strings.Split(raw, ",")
	}
	common.RespondJSON(w, http.StatusOK, textResponse{
		Content: render.FormatText(doc, hidden),
	})
}

// ListGraphs handles GET /api/graphs: every graph with metadata, keyed by
// cache key.
func (h *GraphHandler) ListGraphs(w http.ResponseWriter, r *http.Request) {
	listing, err := h.store.ListMetadata()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	byKey := make(map[string]filestore.ListEntry, len(listing))
	for _, entry := range listing {
		byKey[entry.CacheKey] = entry
	}
	common.RespondJSON(w, http.StatusOK, byKey)
}

// GetNovelChapterStructure handles GET /api/novel-chapter-structure: novel
// names to their chapter names, both drawn from listing metadata.
func (h *GraphHandler) GetNovelChapterStructure(w http.ResponseWriter, r *http.Request) {
	listing, err := h.store.ListMetadata()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	structure := map[string][]string{}
	seen := map[string]map[string]struct{}{}
	for _, entry := range listing {
		novel := stringFilter(entry, "novel_name")
		chapter := stringFilter(entry, "chapter_name")
		if novel == "" || chapter == "" {
			continue
		}
		if seen[novel] == nil {
			seen[novel] = map[string]struct{}{}
		}
		if _, dup := seen[novel][chapter]; dup {
			continue
		}
		seen[novel][chapter] = struct{}{}
		structure[novel] = append(structure[novel], chapter)
	}
	common.RespondJSON(w, http.StatusOK, structure)
}

// GetFilteredGraphs handles GET /api/filtered-graphs?novel=&chapter=.
func (h *GraphHandler) GetFilteredGraphs(w http.ResponseWriter, r *http.Request) {
	novel := r.URL.Query().Get("novel")
	chapter := r.URL.Query().Get("chapter")

	listing, err := h.store.ListMetadata()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	filtered := []filestore.ListEntry{}
	for _, entry := range listing {
		if novel != "" && stringFilter(entry, "novel_name") != novel {
			continue
		}
		if chapter != "" && stringFilter(entry, "chapter_name") != chapter {
			continue
		}
		filtered = append(filtered, entry)
	}
	common.RespondJSON(w, http.StatusOK, filtered)
}

func stringFilter(entry filestore.ListEntry, key string) string {
	s, _ := entry.Filters[key].(string)
	return s
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eugenenazirov/binpacking/internal/dataset"
	"github.com/eugenenazirov/binpacking/internal/metrics"
	"github.com/eugenenazirov/binpacking/internal/packing"
	"github.com/eugenenazirov/binpacking/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const defaultMaxItems = 100_000

// Request bodies are capped at maxItems encoded integers plus room for the
// other fields.
const (
	bytesPerItem      = 24
	bodyOverhead      = 4 << 10
	maxBodyBytesLimit = 1 << 30
)

// Handler wires packing and storage dependencies into HTTP handlers.
type Handler struct {
	storage  storage.Storage
	maxItems int

	clock func() time.Time

	mu                sync.RWMutex
	capacityUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMaxItems caps the number of items accepted or generated per request.
func WithMaxItems(limit int) HandlerOption {
	return func(h *Handler) {
		if limit > 0 {
			h.maxItems = limit
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage:  store,
		maxItems: defaultMaxItems,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.capacityUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetCapacity(w http.ResponseWriter, r *http.Request) {
	_ = r
	capacity, err := h.storage.GetCapacity()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := capacityResponse{
		Capacity:  capacity,
		UpdatedAt: h.currentCapacityUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutCapacity(w http.ResponseWriter, r *http.Request) {
	var req capacityRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.storage.SetCapacity(req.Capacity); err != nil {
		if errors.Is(err, storage.ErrInvalidCapacity) {
			writeError(w, http.StatusBadRequest, "Invalid capacity", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markCapacityUpdated()

	capacity, err := h.storage.GetCapacity()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := capacityResponse{
		Capacity:  capacity,
		UpdatedAt: h.currentCapacityUpdatedAt(),
		Message:   "Bin capacity updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	algorithm := packing.FirstFitAlgorithm
	if req.Algorithm != "" {
		parsed, err := packing.ParseAlgorithm(req.Algorithm)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid algorithm", err.Error(), "Use \"ff\" or \"ffd\"")
			return
		}
		algorithm = parsed
	}

	if !h.checkItemLimit(w, len(req.Items)) {
		return
	}

	capacity, ok := h.resolveCapacity(w, req.Capacity)
	if !ok {
		return
	}

	packer, err := packing.New(algorithm)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := packResponse{
		Algorithm:  string(algorithm),
		Capacity:   capacity,
		LowerBound: packing.LowerBound(req.Items, capacity),
	}

	start := time.Now()
	if req.Verbose {
		var result packing.Packing
		result, err = packer.Pack(req.Items, capacity)
		if err == nil {
			resp.BinCount = result.BinCount()
			resp.TotalSize = result.TotalSize()
			resp.Bins = toBinResponses(result.Bins)
		}
	} else {
		resp.BinCount, err = packer.Count(req.Items, capacity)
		resp.TotalSize = packing.Sum(req.Items)
	}
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordRun(string(algorithm), elapsed, 0, metrics.StatusError)
		writePackingError(w, err)
		return
	}
	metrics.RecordRun(string(algorithm), elapsed, resp.BinCount, metrics.StatusOK)

	resp.CalculationTimeMs = elapsed.Milliseconds()
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if !h.checkItemLimit(w, len(req.Items)) {
		return
	}

	capacity, ok := h.resolveCapacity(w, req.Capacity)
	if !ok {
		return
	}

	algorithms := packing.Algorithms()
	counts := make([]int, len(algorithms))

	start := time.Now()
	var g errgroup.Group
	for i, algorithm := range algorithms {
		g.Go(func() error {
			packer, err := packing.New(algorithm)
			if err != nil {
				return err
			}
			runStart := time.Now()
			counts[i], err = packer.Count(req.Items, capacity)
			status := metrics.StatusOK
			if err != nil {
				status = metrics.StatusError
			}
			metrics.RecordRun(string(algorithm), time.Since(runStart), counts[i], status)
			return err
		})
	}
	err := g.Wait()
	elapsed := time.Since(start)

	if err != nil {
		writePackingError(w, err)
		return
	}

	bins := make(map[string]int, len(algorithms))
	for i, algorithm := range algorithms {
		bins[string(algorithm)] = counts[i]
	}

	resp := compareResponse{
		Capacity:          capacity,
		Items:             len(req.Items),
		LowerBound:        packing.LowerBound(req.Items, capacity),
		Bins:              bins,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	c, err := dataset.ParseCase(req.Case)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid case", err.Error(), "Use \"average\", \"best\" or \"worst\"")
		return
	}

	if req.N <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "n must be a positive integer")
		return
	}
	if !h.checkItemLimit(w, req.N) {
		return
	}

	seed := uint64(h.clock().UnixNano())
	if req.Seed != nil {
		seed = *req.Seed
	}

	resp := generateResponse{
		Case:  string(c),
		Seed:  seed,
		Items: dataset.NewGenerator(seed).Generate(c, req.N),
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeJSON reads a size-limited JSON body into v, writing a 400 or 413
// response and returning false on failure.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes())
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request too large",
				fmt.Sprintf("request bodies are limited to %d bytes", tooLarge.Limit),
				fmt.Sprintf("Send at most %d items per request", h.maxItems))
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return false
	}
	return true
}

func (h *Handler) maxBodyBytes() int64 {
	limit := int64(h.maxItems)*bytesPerItem + bodyOverhead
	if limit > maxBodyBytesLimit {
		return maxBodyBytesLimit
	}
	return limit
}

func (h *Handler) checkItemLimit(w http.ResponseWriter, n int) bool {
	if n > h.maxItems {
		writeError(w, http.StatusRequestEntityTooLarge, "Too many items",
			fmt.Sprintf("requests are limited to %d items, got %d", h.maxItems, n))
		return false
	}
	return true
}

// resolveCapacity returns the requested capacity, or the stored default when
// the request omits it.
func (h *Handler) resolveCapacity(w http.ResponseWriter, requested *int) (int, bool) {
	if requested != nil {
		if *requested <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid capacity", packing.ErrInvalidCapacity.Error())
			return 0, false
		}
		return *requested, true
	}

	capacity, err := h.storage.GetCapacity()
	if err != nil {
		writeInternalError(w, err)
		return 0, false
	}
	return capacity, true
}

func (h *Handler) currentCapacityUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.capacityUpdatedAt
}

func (h *Handler) markCapacityUpdated() {
	h.mu.Lock()
	h.capacityUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func toBinResponses(bins []packing.Bin) []binResponse {
	out := make([]binResponse, len(bins))
	for i, bin := range bins {
		out[i] = binResponse{
			Items:     bin.Items,
			Load:      bin.Load(),
			Remaining: bin.Remaining,
		}
	}
	return out
}

type capacityRequest struct {
	Capacity int `json:"capacity"`
}

type packRequest struct {
	Algorithm string `json:"algorithm"`
	Items     []int  `json:"items"`
	Capacity  *int   `json:"capacity,omitempty"`
	Verbose   bool   `json:"verbose"`
}

type compareRequest struct {
	Items    []int `json:"items"`
	Capacity *int  `json:"capacity,omitempty"`
}

type generateRequest struct {
	Case string  `json:"case"`
	N    int     `json:"n"`
	Seed *uint64 `json:"seed,omitempty"`
}

type binResponse struct {
	Items     []int `json:"items"`
	Load      int   `json:"load"`
	Remaining int   `json:"remaining"`
}

type packResponse struct {
	Algorithm         string        `json:"algorithm"`
	Capacity          int           `json:"capacity"`
	BinCount          int           `json:"binCount"`
	LowerBound        int           `json:"lowerBound"`
	TotalSize         int           `json:"totalSize"`
	Bins              []binResponse `json:"bins,omitempty"`
	CalculationTimeMs int64         `json:"calculationTimeMs"`
}

type compareResponse struct {
	Capacity          int            `json:"capacity"`
	Items             int            `json:"items"`
	LowerBound        int            `json:"lowerBound"`
	Bins              map[string]int `json:"bins"`
	CalculationTimeMs int64          `json:"calculationTimeMs"`
}

type generateResponse struct {
	Case  string `json:"case"`
	Seed  uint64 `json:"seed"`
	Items []int  `json:"items"`
}

type capacityResponse struct {
	Capacity  int       `json:"capacity"`
	UpdatedAt time.Time `json:"updatedAt"`
	Message   string    `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	ItemIndex  *int   `json:"itemIndex,omitempty"`
	ItemSize   *int   `json:"itemSize,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}

func writePackingError(w http.ResponseWriter, err error) {
	var itemErr *packing.ItemError
	switch {
	case errors.Is(err, packing.ErrInvalidCapacity):
		writeError(w, http.StatusBadRequest, "Invalid capacity", err.Error())
	case errors.As(err, &itemErr) && errors.Is(err, packing.ErrItemTooLarge):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:      "Item too large",
			Details:    err.Error(),
			Suggestion: fmt.Sprintf("Increase the bin capacity to at least %d or remove the item", itemErr.Size),
			ItemIndex:  &itemErr.Index,
			ItemSize:   &itemErr.Size,
		})
	case errors.As(err, &itemErr) && errors.Is(err, packing.ErrInvalidItem):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:     "Invalid item",
			Details:   err.Error(),
			ItemIndex: &itemErr.Index,
			ItemSize:  &itemErr.Size,
		})
	default:
		writeInternalError(w, err)
	}
}

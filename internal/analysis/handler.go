package analysis

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/mux"

	"Certus/internal/chapters"
	"Certus/internal/extract"
	"Certus/internal/mapping"
	"Certus/internal/margin"
)

type Handler struct {
	Service *Service

	mu      sync.Mutex
	dataset *extract.Dataset
}

type AnalyzeRequest struct {
	Method    string `json:"calculation_method"`
	LoadCases []int  `json:"load_cases"`
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Stress Analysis Engine Ready."})
}

// UploadMapping parses an uploaded Nastran .dat deck into the component
// mapping used by subsequent analyses.
func (h *Handler) UploadMapping(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	m, err := mapping.ParseDatReader(file)
	if err != nil {
		http.Error(w, "Could not parse .dat file", http.StatusBadRequest)
		return
	}
	if len(m) == 0 {
		http.Error(w, "No mesh collectors found in .dat file", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.Service.Mapping = m
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":           "Mapping loaded",
		"components_found": len(m),
	})
}

// UploadDataset accepts a pre-extracted solver dataset (JSON) and makes it
// the current extraction source.
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var d extract.Dataset
	if err := json.NewDecoder(file).Decode(&d); err != nil {
		http.Error(w, "Invalid dataset file", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.dataset = &d
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename":             header.Filename,
		"status":               "Uploaded Successfully",
		"available_load_cases": availableLoadCases(&d),
	})
}

// availableLoadCases previews up to ten load case ids present in the
// dataset's shell tables.
func availableLoadCases(d *extract.Dataset) []int {
	seen := map[int]bool{}
	for _, rows := range d.Shells {
		for lc := range rows {
			seen[lc] = true
		}
	}
	lcs := make([]int, 0, len(seen))
	for lc := range seen {
		lcs = append(lcs, lc)
	}
	sort.Ints(lcs)
	if len(lcs) > 10 {
		lcs = lcs[:10]
	}
	return lcs
}

// Analyze runs the full margin pipeline against the current dataset (or the
// built-in demo dataset when none was uploaded).
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	var src extract.Source = h.dataset
	if h.dataset == nil {
		src = extract.DemoDataset()
	}
	h.mu.Unlock()

	run, err := h.Service.Analyze(r.Context(), src, req.Method, req.LoadCases)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "Analysis Complete",
		"method":  run.Method,
		"run_id":  run.ID,
		"results": run.Results,
	})
}

// Chapters organizes a result set into report sections. The body may be the
// tagged two-bucket shape produced by Analyze, or a flat component map, in
// which case the name heuristic is applied.
func (h *Handler) Chapters(w http.ResponseWriter, r *http.Request) {
	var probe map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&probe); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	var out []chapters.Chapter
	if _, tagged := probe["Elements"]; tagged {
		out = organizeTagged(probe)
	} else if _, tagged := probe["Freebodies"]; tagged {
		out = organizeTagged(probe)
	} else {
		flat := make(map[string]margin.ComponentResults, len(probe))
		for name, raw := range probe {
			var comp margin.ComponentResults
			if err := json.Unmarshal(raw, &comp); err != nil {
				http.Error(w, "Invalid result set", http.StatusBadRequest)
				return
			}
			flat[name] = comp
		}
		out = chapters.OrganizeFlat(flat)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"chapters": out})
}

func organizeTagged(probe map[string]json.RawMessage) []chapters.Chapter {
	set := margin.NewResultSet()
	if raw, ok := probe["Elements"]; ok {
		json.Unmarshal(raw, &set.Elements)
	}
	if raw, ok := probe["Freebodies"]; ok {
		json.Unmarshal(raw, &set.Freebodies)
	}
	return chapters.Organize(set)
}

// ListRuns and GetRun expose persisted runs; both 404 politely when the
// service runs without a database.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.Service.Repo == nil {
		http.Error(w, "Run persistence not configured", http.StatusNotFound)
		return
	}
	runs, err := h.Service.Repo.ListRuns(r.Context(), 50)
	if err != nil {
		http.Error(w, "Could not list runs", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"runs": runs})
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.Service.Repo == nil {
		http.Error(w, "Run persistence not configured", http.StatusNotFound)
		return
	}
	id := mux.Vars(r)["id"]
	run, err := h.Service.Repo.GetRun(r.Context(), id)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

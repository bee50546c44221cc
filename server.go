package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"photoOsint/classify"
	"photoOsint/extract"
)

type apiError struct {
	Error string `json:"error"`
}

type healthResp struct {
	Ok        bool      `json:"ok"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

type scanReq struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
	Limit     int    `json:"limit"`
	OSINT     *bool  `json:"osint"`
}

type scanResp struct {
	Started bool   `json:"started"`
	Status  string `json:"status"`
}

// serverConfig carries the processing defaults API-triggered scans inherit.
type serverConfig struct {
	dbFile   string
	defaults ProcessingConfig
	log      *logrus.Logger
}

func StartServer(addr string, cfg serverConfig) error {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/records", withDB(cfg.dbFile, handleListRecords)).Methods(http.MethodGet)
	r.HandleFunc("/api/records/{id}", withDB(cfg.dbFile, handleGetRecord)).Methods(http.MethodGet)
	r.HandleFunc("/api/records/{id}/categories", withDB(cfg.dbFile, handleRecordCategories)).Methods(http.MethodGet)
	r.HandleFunc("/api/scan", func(w http.ResponseWriter, r *http.Request) {
		handleScan(w, r, cfg)
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/scan/status", handleScanStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/clear", withDB(cfg.dbFile, func(w http.ResponseWriter, r *http.Request, db *DB) {
		if err := db.clearRecords(); err != nil {
			writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
	})).Methods(http.MethodPost)
	r.HandleFunc("/api/thumbnails/{path:.*}", func(w http.ResponseWriter, r *http.Request) {
		handleThumbnail(w, r, cfg.defaults.OutDir)
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/maps/{name}", handleMap).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedHeaders([]string{"Content-Type", "Accept"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedOrigins([]string{"*"}),
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           cors(r),
		ReadHeaderTimeout: 5 * time.Second,
	}
	cfg.log.Infof("serving HTTP API on %s", addr)
	return srv.ListenAndServe()
}

func handleScanStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GetScanStatus())
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResp{Ok: true, Version: "0.1.0", Timestamp: time.Now()})
}

func withDB(dbFile string, next func(http.ResponseWriter, *http.Request, *DB)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		db, err := openAndInitDB(dbFile)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
			return
		}
		defer db.Close()
		next(w, r, db)
	}
}

func handleListRecords(w http.ResponseWriter, r *http.Request, db *DB) {
	offset, limit := parsePage(r)
	rows, err := db.listRecords(offset, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func handleGetRecord(w http.ResponseWriter, r *http.Request, db *DB) {
	row, ok := fetchRecord(w, r, db)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// handleRecordCategories regroups a stored record into display categories,
// preserving the original extraction order inside each group.
func handleRecordCategories(w http.ResponseWriter, r *http.Request, db *DB) {
	row, ok := fetchRecord(w, r, db)
	if !ok {
		return
	}
	var rec extract.Record
	if err := json.Unmarshal([]byte(row.Metadata), &rec); err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "corrupt metadata: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, classify.GroupRecord(&rec))
}

func fetchRecord(w http.ResponseWriter, r *http.Request, db *DB) (*RecordRow, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid id"})
		return nil, false
	}
	row, err := db.getRecordByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
		return nil, false
	}
	if row == nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "not found"})
		return nil, false
	}
	return row, true
}

func handleScan(w http.ResponseWriter, r *http.Request, cfg serverConfig) {
	var req scanReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	config := cfg.defaults
	if req.Path != "" {
		config.Root = req.Path
	}
	if req.Recursive {
		config.Recursive = true
	}
	if req.Limit > 0 {
		config.Limit = req.Limit
	}
	if req.OSINT != nil {
		config.OSINT = *req.OSINT
	}
	if config.Root == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "path required"})
		return
	}

	startBackgroundScan(config, cfg.log)
	writeJSON(w, http.StatusAccepted, scanResp{Started: true, Status: "started"})
}

func parsePage(r *http.Request) (int64, int64) {
	q := r.URL.Query()
	var (
		offset int64 = 0
		limit  int64 = 50
	)
	if s := q.Get("offset"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v >= 0 {
			offset = v
		}
	}
	if s := q.Get("limit"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}
	return offset, limit
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func handleThumbnail(w http.ResponseWriter, r *http.Request, outDir string) {
	thumbPath := mux.Vars(r)["path"]
	if thumbPath == "" {
		http.Error(w, "thumbnail path required", http.StatusBadRequest)
		return
	}

	thumbPath = strings.ReplaceAll(thumbPath, "%2F", "/")
	thumbPath = filepath.FromSlash(thumbPath)
	fullThumbPath := filepath.Join(outDir, thumbPath)

	// Confine serving to the thumbnails directory
	absThumbDir, err := filepath.Abs(filepath.Join(outDir, ".thumbnails"))
	if err != nil {
		http.Error(w, "invalid thumbnail directory", http.StatusInternalServerError)
		return
	}
	absThumbPath, err := filepath.Abs(fullThumbPath)
	if err != nil {
		http.Error(w, "invalid thumbnail path", http.StatusBadRequest)
		return
	}
	if !strings.HasPrefix(absThumbPath, absThumbDir) {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	if _, err := os.Stat(absThumbPath); os.IsNotExist(err) {
		http.Error(w, "thumbnail not found", http.StatusNotFound)
		return
	}

	ext := strings.ToLower(filepath.Ext(absThumbPath))
	contentType := "image/jpeg"
	switch ext {
	case ".png":
		contentType = "image/png"
	case ".webp":
		contentType = "image/webp"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, absThumbPath)
}

// handleMap serves generated location-map documents out of the temp
// directory. Only the exact generated filename pattern is accepted so the
// route cannot read arbitrary temp files.
func handleMap(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !strings.HasPrefix(name, "osint_map_") || !strings.HasSuffix(name, ".html") || strings.ContainsAny(name, "/\\") {
		http.Error(w, "invalid map name", http.StatusBadRequest)
		return
	}
	path := filepath.Join(os.TempDir(), name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		http.Error(w, "map not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, path)
}

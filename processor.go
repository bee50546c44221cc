package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"photoOsint/extract"
	"photoOsint/geocode"
	"photoOsint/osint"
	"photoOsint/osmmap"
	"photoOsint/report"
)

// imageExtensions is the allow-list of processable formats.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".tiff": true, ".tif": true, ".webp": true, ".bmp": true,
	".cr2": true, ".nef": true, ".arw": true,
	".orf": true, ".rw2": true, ".dng": true,
}

// ProcessingConfig holds everything a scan run needs.
type ProcessingConfig struct {
	Root        string // file or directory to process
	Recursive   bool
	Limit       int    // max files, 0 means unlimited
	OutDir      string // where JSON reports land
	Suffix      string // report filename suffix
	OSINT       bool   // run the enrichment pass
	CatalogPath string // SQLite catalog, empty disables
	Gazetteer   string // offline gazetteer CSV, empty disables
	UserAgent   string // reverse-geocoder User-Agent
}

// ScanStatus is the progress snapshot the API reports.
type ScanStatus struct {
	Status      string    `json:"status"` // idle, processing, completed, error
	TotalFiles  int64     `json:"totalFiles"`
	Processed   int64     `json:"processed"`
	Saved       int64     `json:"saved"`
	Failed      int64     `json:"failed"`
	GPSLocated  int64     `json:"gpsLocated"`
	TotalFields int64     `json:"totalFields"`
	OSINTFields int64     `json:"osintFields"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	CurrentFile string    `json:"currentFile"`
	Error       string    `json:"error"`
}

var (
	statusMu   sync.Mutex
	scanStatus = &ScanStatus{Status: "idle"}
)

func GetScanStatus() ScanStatus {
	statusMu.Lock()
	defer statusMu.Unlock()
	return *scanStatus
}

func updateScanStatus(fn func(*ScanStatus)) {
	statusMu.Lock()
	defer statusMu.Unlock()
	fn(scanStatus)
}

// findImages collects processable files under root. A single-file root
// bypasses the extension allow-list so the caller can force odd files
// through. Results come back sorted for stable processing order.
func findImages(root string, recursive bool, limit int) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var out []string
	if recursive {
		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if imageExtensions[strings.ToLower(filepath.Ext(path))] {
				out = append(out, path)
			}
			return nil
		})
	} else {
		var entries []os.DirEntry
		entries, err = os.ReadDir(root)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				path := filepath.Join(root, entry.Name())
				if imageExtensions[strings.ToLower(filepath.Ext(path))] {
					out = append(out, path)
				}
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// buildEnhancer wires the enrichment collaborators from config. A missing
// gazetteer file downgrades to online-only geocoding with a warning.
func buildEnhancer(config ProcessingConfig, log *logrus.Logger) *osint.Enhancer {
	if !config.OSINT {
		return nil
	}
	geocoder := geocode.NewClient(config.UserAgent)

	var gazetteer osint.Gazetteer
	if config.Gazetteer != "" {
		g, err := geocode.LoadGazetteer(config.Gazetteer)
		if err != nil {
			log.Warnf("gazetteer disabled: %v", err)
		} else {
			gazetteer = g
		}
	}
	return osint.NewEnhancer(geocoder, gazetteer, osmmap.NewWriter(""), log)
}

// processFiles runs the full pipeline over every image under config.Root,
// writing JSON reports and catalog rows as it goes. Failures on individual
// files are reported and skipped.
func processFiles(config ProcessingConfig, log *logrus.Logger) error {
	images, err := findImages(config.Root, config.Recursive, config.Limit)
	if err != nil {
		updateScanStatus(func(s *ScanStatus) {
			s.Status = "error"
			s.Error = err.Error()
		})
		return err
	}

	updateScanStatus(func(s *ScanStatus) {
		*s = ScanStatus{
			Status:     "processing",
			TotalFiles: int64(len(images)),
			StartTime:  time.Now(),
		}
	})

	var db *DB
	if config.CatalogPath != "" {
		db, err = openAndInitDB(config.CatalogPath)
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		defer db.Close()
	}

	extractor := extract.NewExtractor(log)
	enhancer := buildEnhancer(config, log)

	for _, path := range images {
		fmt.Println("Processing:", path)
		updateScanStatus(func(s *ScanStatus) {
			s.Processed++
			s.CurrentFile = filepath.Base(path)
		})

		rec := osint.ExtractOSINT(extractor, enhancer, path)

		reportPath, err := report.Write(rec, path, config.OutDir, config.Suffix)
		if err != nil {
			fmt.Printf("Failed %s: %v\n", path, err)
			updateScanStatus(func(s *ScanStatus) { s.Failed++ })
			continue
		}
		fmt.Println("Saved metadata ->", reportPath)

		gpsLocated := rec.Has("GPS_Latitude_Decimal") || rec.Has("OSINT_Coordinates")
		osintCount := countOSINTFields(rec)

		updateScanStatus(func(s *ScanStatus) {
			s.Saved++
			s.TotalFields += int64(rec.Len())
			s.OSINTFields += int64(osintCount)
			if gpsLocated {
				s.GPSLocated++
			}
		})

		if db != nil {
			if err := catalogRecord(db, rec, path, reportPath, config.OutDir, enhancer != nil, gpsLocated, osintCount, log); err != nil {
				log.Warnf("catalog %s: %v", path, err)
			}
		}
	}

	updateScanStatus(func(s *ScanStatus) {
		s.Status = "completed"
		s.CurrentFile = ""
		s.EndTime = time.Now()
	})
	fmt.Printf("Processed %d files (%d saved, %d failed)\n",
		len(images), GetScanStatus().Saved, GetScanStatus().Failed)
	return nil
}

// catalogRecord stores one result row, generating a thumbnail alongside.
func catalogRecord(db *DB, rec *extract.Record, path, reportPath, outDir string, osintRun, gpsLocated bool, osintCount int, log *logrus.Logger) error {
	hash, err := computeFileHash(path)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	metadataJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	thumbnailPath, err := processThumbnail(path, outDir)
	if err != nil {
		log.Warnf("thumbnail %s: %v", path, err)
	}

	_, err = db.upsertRecord(RecordRow{
		Name:          filepath.Base(path),
		SrcPath:       path,
		Size:          info.Size(),
		SHA256:        hash,
		OSINT:         osintRun,
		FieldCount:    int64(rec.Len()),
		OSINTCount:    int64(osintCount),
		GPSLocated:    gpsLocated,
		Metadata:      string(metadataJSON),
		ReportPath:    reportPath,
		ThumbnailPath: thumbnailPath,
		ExtractedAt:   time.Now().Format(time.RFC3339),
	})
	return err
}

func countOSINTFields(rec *extract.Record) int {
	n := 0
	for _, key := range rec.Keys() {
		if strings.HasPrefix(key, "OSINT_") {
			n++
		}
	}
	return n
}

// startBackgroundScan kicks off processFiles on a goroutine for the API.
func startBackgroundScan(config ProcessingConfig, log *logrus.Logger) {
	go func() {
		if err := processFiles(config, log); err != nil {
			log.Errorf("scan failed: %v", err)
		}
	}()
}

func computeFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var (
	recursive bool
	noOSINT   bool
	outDir    string
	limit     int
	suffix    string
	serveMode bool
	addr      string
	catalog   string
	gazetteer string
	userAgent string
	clearDB   bool
	verbose   bool
)

func main() {
	flag.BoolVar(&recursive, "r", false, "Recurse into subdirectories")
	flag.BoolVar(&recursive, "recursive", false, "Recurse into subdirectories")
	flag.BoolVar(&noOSINT, "no-osint", false, "Skip the OSINT enrichment pass")
	flag.StringVar(&outDir, "out", "", "Directory for JSON reports (empty = beside each source file)")
	flag.IntVar(&limit, "limit", 0, "Maximum number of files to process (0 = no limit)")
	flag.StringVar(&suffix, "suffix", "", "Report filename suffix (default \"_metadata\")")
	flag.BoolVar(&serveMode, "serve", false, "Run the HTTP API server")
	flag.StringVar(&addr, "addr", "127.0.0.1:7070", "HTTP API listen address")
	flag.StringVar(&catalog, "catalog", "", "SQLite catalog path (empty disables cataloging)")
	flag.StringVar(&gazetteer, "gazetteer", "", "Offline gazetteer CSV for reverse geocoding")
	flag.StringVar(&userAgent, "user-agent", "photoOsint/0.1", "User-Agent for the reverse geocoder")
	flag.BoolVar(&clearDB, "clear-db", false, "Delete all catalog records and exit")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if catalog == "" && (serveMode || clearDB) {
		catalog = filepath.Join(outDir, "photoOsint.db")
	}

	if clearDB {
		db, err := openAndInitDB(catalog)
		if err != nil {
			fmt.Println("Failed to open catalog:", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.clearRecords(); err != nil {
			fmt.Println("Failed to clear catalog:", err)
			os.Exit(1)
		}
		fmt.Println("Cleared catalog records")
		return
	}

	config := ProcessingConfig{
		Root:        flag.Arg(0),
		Recursive:   recursive,
		Limit:       limit,
		OutDir:      outDir,
		Suffix:      suffix,
		OSINT:       !noOSINT,
		CatalogPath: catalog,
		Gazetteer:   gazetteer,
		UserAgent:   userAgent,
	}

	if serveMode {
		cfg := serverConfig{dbFile: catalog, defaults: config, log: log}
		if err := StartServer(addr, cfg); err != nil {
			fmt.Println("server error:", err)
			os.Exit(1)
		}
		return
	}

	if config.Root == "" {
		fmt.Println("Usage: photoOsint [flags] <image-or-directory>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := processFiles(config, log); err != nil {
		fmt.Println("processing error:", err)
		os.Exit(1)
	}
}

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"mis-reports/cmd/mockgen/engine"
)

func main() {
	addr := flag.String("addr", ":9090", "Address to serve the mock backend on")
	outDir := flag.String("out", "", "Write collections as JSON files to this directory instead of serving")
	count := flag.Int("count", 60, "Number of records per collection")
	seed := flag.Int64("seed", 1, "Random seed")
	invalid := flag.Float64("invalid", 0.05, "Share of records with an unparseable date")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Count:       *count,
		Now:         time.Now(),
		Seed:        *seed,
		InvalidRate: *invalid,
	}

	ds := engine.Generate(cfg)
	fmt.Printf("Generated %d collections (%d records each, seed %d)\n", len(ds), cfg.Count, cfg.Seed)

	if *outDir != "" {
		if err := engine.Save(*outDir, ds); err != nil {
			fmt.Printf("Failed to save mock data: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved to %s\n", *outDir)
		return
	}

	fmt.Printf("Serving mock backend on %s (set REPORTS_API_URL=http://localhost%s)\n", *addr, *addr)
	if err := http.ListenAndServe(*addr, engine.Handler(ds)); err != nil {
		fmt.Printf("Mock backend stopped: %v\n", err)
		os.Exit(1)
	}
}

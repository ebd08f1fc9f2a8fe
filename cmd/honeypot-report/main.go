package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"scam-honeypot/internal/analytics"
	"scam-honeypot/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: honeypot-report <journal.jsonl> [YYYY-MM-DD] [--json]")
		os.Exit(1)
	}

	path := os.Args[1]
	if _, err := os.Stat(path); err != nil {
		log.Fatalf("journal not readable: %v", err)
	}

	day := time.Now().UTC()
	asJSON := false
	for _, arg := range os.Args[2:] {
		if arg == "--json" {
			asJSON = true
			continue
		}
		d, err := time.Parse("2006-01-02", arg)
		if err != nil {
			log.Fatalf("invalid date %q: %v", arg, err)
		}
		day = d
	}

	rec, err := storage.NewFileRecorder(path)
	if err != nil {
		log.Fatalf("failed to open journal: %v", err)
	}
	stats, err := analytics.LoadDaily(rec, day)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if asJSON {
		out, err := stats.ToJSON()
		if err != nil {
			log.Fatalf("failed to encode stats: %v", err)
		}
		fmt.Println(out)
		return
	}
	fmt.Print(stats.GenerateReportSummary())
}

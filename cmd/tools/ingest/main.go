// Command ingest backfills monthly revenue disclosures from TWSE MOPS into
// the database over a range of disclosure periods.
//
// Usage:
//
//	go run ./cmd/tools/ingest -from 112_01 -to 113_11
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"stockrevenuelab/pkg/core/fiscal"
	"stockrevenuelab/pkg/core/ingest"
	"stockrevenuelab/pkg/core/store"
)

func main() {
	from := flag.String("from", "", "first disclosure period, e.g. 112_01")
	to := flag.String("to", "", "last disclosure period, e.g. 113_11")
	pause := flag.Duration("pause", 3*time.Second, "delay between MOPS requests")
	flag.Parse()

	if *from == "" || *to == "" {
		fmt.Println("Usage: ingest -from 112_01 -to 113_11")
		os.Exit(1)
	}

	start, err := fiscal.ParsePeriod(*from)
	if err != nil {
		fmt.Printf("[FATAL] Invalid -from period: %v\n", err)
		os.Exit(1)
	}
	end, err := fiscal.ParsePeriod(*to)
	if err != nil {
		fmt.Printf("[FATAL] Invalid -to period: %v\n", err)
		os.Exit(1)
	}
	if end.Before(start) {
		fmt.Println("[FATAL] -to period precedes -from period")
		os.Exit(1)
	}

	godotenv.Load()

	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[FATAL] Database initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	client := ingest.NewTWSEClient()
	total := 0

	for p := start; !end.Before(p); p = p.Next() {
		rows, err := client.FetchMonthlyRevenue(ctx, p)
		if err != nil {
			fmt.Printf("[INGEST] %s skipped: %v\n", p, err)
			continue
		}

		n, err := ingest.UpsertRevenue(ctx, store.GetPool(), rows)
		if err != nil {
			fmt.Printf("[INGEST] %s upsert failed after %d rows: %v\n", p, n, err)
			os.Exit(1)
		}
		total += n
		fmt.Printf("[INGEST] %s: %d companies\n", p, n)

		// Be polite to MOPS.
		if !end.Before(p.Next()) {
			time.Sleep(*pause)
		}
	}

	fmt.Printf("[INGEST] Done. %d rows written for %s..%s\n", total, start, end)
}

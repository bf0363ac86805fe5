// Package axe fetches arXiv papers and converts them to text or markdown,
// one item at a time, keeping per-run and lifetime statistics.
//
// This package implements:
//   - Identifier extraction from URLs, file names and free text
//   - Classification of user targets (file, directory, configured path, URL or ID)
//   - Metadata lookup via the arXiv export API and PDF download
//   - Conversion through poppler's pdftotext, with markdown rendering
//   - Two-tier statistics: run counters merged once into a JSON file
//   - A SQLite ledger of finished jobs with output search
//
// A failing item never stops a batch: every item ends in exactly one
// Outcome (success, failed or skipped). Only cancelling the context
// aborts a batch, and the item in flight is then not recorded.
//
// Basic usage:
//
//	store := axe.NewStore(statsPath)
//	stats := axe.NewAggregator(store)
//
//	orch := axe.NewOrchestrator(axe.NewClient(), axe.NewPDFToText("", nil), stats)
//	item, err := axe.Classify("2103.15538", inputDir, cwd)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := orch.Process(ctx, item, outputDir, axe.FormatBoth); err != nil {
//		log.Fatal(err) // interrupted
//	}
//	if err := stats.MergeAndPersist(); err != nil {
//		log.Printf("save statistics: %v", err)
//	}
package axe

// Command axe fetches arXiv papers and converts them to text or markdown.
//
// Usage:
//
//	axe chop TARGET [-f text|markdown|both] [-o DIR]
//	axe path [--in DIR] [--out DIR] [--format FORMAT]
//	axe stats [--reset [--yes]] [--output text|json|yaml]
//	axe history [-n N] [--run ID]
//	axe search QUERY [--fuzzy] [-n N]
//	axe id TEXT
//
// TARGET is a PDF, a directory, an arXiv URL or identifier, "." for the
// current directory, or "path" for the configured input directory.
//
// Configuration lives in $AXE_HOME (default: the user config directory,
// e.g. ~/.config/axe): config.json, stats.json and ledger.db. Every
// config.json key can be overridden with an AXE_ environment variable,
// e.g. AXE_OUTPUT_PATH or AXE_PDFTOTEXT.
//
// Converting requires poppler's pdftotext.
package main

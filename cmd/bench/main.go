// bench - Borsh size and speed benchmark runner
//
// For every case in testdata/bench/manifest.json compares:
//   - minified JSON bytes
//   - schema-less Borsh bytes
//   - schema-guided Borsh payload and header bytes
//   - zstd-packed blob bytes
//   - encode/decode time per operation
//
// Output: CSV and markdown summary
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Neumenon/borsh/borsh"
)

type CaseResult struct {
	Name           string
	JSONBytes      int
	SchemalessSize int
	PayloadBytes   int
	HeaderBytes    int
	CompactHeader  int
	PackedBytes    int
	BytesPct       float64
	EncodeNs       int64
	DecodeNs       int64
}

type Manifest struct {
	Version     string `json:"version"`
	Description string `json:"description"`
	Cases       []struct {
		Name   string `json:"name"`
		File   string `json:"file"`
		Schema string `json:"schema"`
	} `json:"cases"`
}

const iterations = 2000

func main() {
	testdataDir := ""
	if len(os.Args) > 1 {
		testdataDir = os.Args[1]
	} else {
		testdataDir = findTestdata()
	}
	if testdataDir == "" {
		fmt.Fprintln(os.Stderr, "Cannot find testdata/bench directory")
		os.Exit(1)
	}

	manifestData, err := os.ReadFile(filepath.Join(testdataDir, "manifest.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read manifest: %v\n", err)
		os.Exit(1)
	}
	var manifest Manifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot parse manifest: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Borsh Benchmark Runner\n")
	fmt.Fprintf(os.Stderr, "======================\n")
	fmt.Fprintf(os.Stderr, "Corpus: %s (%d cases)\n\n", manifest.Version, len(manifest.Cases))

	var results []CaseResult
	for _, c := range manifest.Cases {
		r, err := runCase(c.Name, filepath.Join(testdataDir, c.File), filepath.Join(testdataDir, c.Schema))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: %v\n", c.Name, err)
			continue
		}
		results = append(results, r)
	}

	csvPath := "bench_results.csv"
	if f, err := os.Create(csvPath); err == nil {
		writeCSV(f, results)
		f.Close()
		fmt.Fprintf(os.Stderr, "CSV written to: %s\n", csvPath)
	}

	date := time.Now().Format("2006-01-02")
	mdPath := "BENCH_" + date + ".md"
	if f, err := os.Create(mdPath); err == nil {
		writeMarkdown(f, results, manifest.Version, date)
		f.Close()
		fmt.Fprintf(os.Stderr, "Markdown written to: %s\n", mdPath)
	}

	t := totals(results)
	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Cases:          %d\n", len(results))
	fmt.Printf("JSON total:     %d bytes\n", t.JSONBytes)
	fmt.Printf("Schema-less:    %d bytes\n", t.SchemalessSize)
	fmt.Printf("With schema:    %d payload + %d header bytes\n", t.PayloadBytes, t.HeaderBytes)
	fmt.Printf("Payload saved:  %d (%.1f%%)\n", t.JSONBytes-t.PayloadBytes, pct(t.JSONBytes-t.PayloadBytes, t.JSONBytes))
}

func runCase(name, valuePath, schemaPath string) (CaseResult, error) {
	r := CaseResult{Name: name}

	data, err := os.ReadFile(valuePath)
	if err != nil {
		return r, err
	}
	v, err := borsh.FromJSON(data)
	if err != nil {
		return r, fmt.Errorf("parse value: %w", err)
	}
	schemaText, err := os.ReadFile(schemaPath)
	if err != nil {
		return r, err
	}
	var s *borsh.Schema
	if strings.HasSuffix(schemaPath, ".json") {
		s, err = borsh.SchemaFromJSON(schemaText)
	} else {
		s, err = borsh.SchemaFromYAML(schemaText)
	}
	if err != nil {
		return r, fmt.Errorf("parse schema: %w", err)
	}

	minified, err := borsh.ToJSON(v, borsh.JSONOptions{})
	if err != nil {
		return r, err
	}
	r.JSONBytes = len(minified)

	if schemaless, err := borsh.EncodeSchemaless(v); err == nil {
		r.SchemalessSize = len(schemaless)
	} else {
		r.SchemalessSize = -1
	}

	enc, err := borsh.NewEncoder(s, borsh.EncodeOptions{})
	if err != nil {
		return r, err
	}
	dec, err := borsh.NewDecoder(s, borsh.DecodeOptions{})
	if err != nil {
		return r, err
	}
	payload, err := enc.Encode(v)
	if err != nil {
		return r, fmt.Errorf("encode: %w", err)
	}
	r.PayloadBytes = len(payload)
	r.BytesPct = pct(r.JSONBytes-r.PayloadBytes, r.JSONBytes)

	header, err := borsh.EncodeSchema(s)
	if err != nil {
		return r, err
	}
	r.HeaderBytes = len(header)
	if c, err := borsh.Compact(s); err == nil {
		if ch, err := borsh.EncodeSchema(c); err == nil {
			r.CompactHeader = len(ch)
		}
	}
	packed, err := borsh.PackBytes(borsh.Wrap(header, payload), borsh.PackOptions{Compress: true})
	if err != nil {
		return r, err
	}
	r.PackedBytes = len(packed)

	start := time.Now()
	for i := 0; i < iterations; i++ {
		if _, err := enc.Encode(v); err != nil {
			return r, err
		}
	}
	r.EncodeNs = time.Since(start).Nanoseconds() / iterations

	start = time.Now()
	for i := 0; i < iterations; i++ {
		if _, _, err := dec.Decode(payload); err != nil {
			return r, err
		}
	}
	r.DecodeNs = time.Since(start).Nanoseconds() / iterations
	return r, nil
}

func totals(results []CaseResult) CaseResult {
	var t CaseResult
	for _, r := range results {
		t.JSONBytes += r.JSONBytes
		t.SchemalessSize += max(0, r.SchemalessSize)
		t.PayloadBytes += r.PayloadBytes
		t.HeaderBytes += r.HeaderBytes
		t.CompactHeader += r.CompactHeader
		t.PackedBytes += r.PackedBytes
	}
	return t
}

func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100.0
}

func findTestdata() string {
	paths := []string{
		"testdata/bench",
		"../testdata/bench",
		"../../testdata/bench",
	}
	for _, p := range paths {
		if _, err := os.Stat(filepath.Join(p, "manifest.json")); err == nil {
			return p
		}
	}
	return ""
}

func writeCSV(w io.Writer, results []CaseResult) {
	fmt.Fprintln(w, "name,json_bytes,schemaless_bytes,payload_bytes,header_bytes,compact_header_bytes,packed_bytes,bytes_pct,encode_ns,decode_ns")
	for _, r := range results {
		fmt.Fprintf(w, "%s,%d,%d,%d,%d,%d,%d,%.1f,%d,%d\n",
			r.Name, r.JSONBytes, r.SchemalessSize, r.PayloadBytes, r.HeaderBytes,
			r.CompactHeader, r.PackedBytes, r.BytesPct, r.EncodeNs, r.DecodeNs)
	}
}

func writeMarkdown(w io.Writer, results []CaseResult, version, date string) {
	t := totals(results)

	fmt.Fprintf(w, "# Borsh Benchmark Results\n\n")
	fmt.Fprintf(w, "**Date:** %s  \n", date)
	fmt.Fprintf(w, "**Corpus:** %s (%d cases)  \n\n", version, len(results))

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Encoding | Bytes | vs JSON |\n")
	fmt.Fprintf(w, "|----------|-------|---------|\n")
	fmt.Fprintf(w, "| JSON (minified) | %d | |\n", t.JSONBytes)
	fmt.Fprintf(w, "| Schema-less | %d | %.1f%% |\n", t.SchemalessSize, pct(t.JSONBytes-t.SchemalessSize, t.JSONBytes))
	fmt.Fprintf(w, "| Schema payload | %d | %.1f%% |\n", t.PayloadBytes, pct(t.JSONBytes-t.PayloadBytes, t.JSONBytes))
	fmt.Fprintf(w, "| Payload + header | %d | %.1f%% |\n", t.PayloadBytes+t.HeaderBytes, pct(t.JSONBytes-t.PayloadBytes-t.HeaderBytes, t.JSONBytes))
	fmt.Fprintf(w, "| Payload + compact header | %d | %.1f%% |\n", t.PayloadBytes+t.CompactHeader, pct(t.JSONBytes-t.PayloadBytes-t.CompactHeader, t.JSONBytes))
	fmt.Fprintf(w, "| Packed (zstd) | %d | %.1f%% |\n\n", t.PackedBytes, pct(t.JSONBytes-t.PackedBytes, t.JSONBytes))

	sorted := make([]CaseResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].BytesPct > sorted[j].BytesPct
	})

	fmt.Fprintf(w, "## Top 5 Payload Savings\n\n")
	fmt.Fprintf(w, "| Case | JSON | Payload | Saved |\n")
	fmt.Fprintf(w, "|------|------|---------|-------|\n")
	for i := 0; i < min(5, len(sorted)); i++ {
		r := sorted[i]
		fmt.Fprintf(w, "| %s | %d | %d | %.1f%% |\n", r.Name, r.JSONBytes, r.PayloadBytes, r.BytesPct)
	}

	fmt.Fprintf(w, "\n## Methodology\n\n")
	fmt.Fprintf(w, "- **JSON:** minified, keys in input order\n")
	fmt.Fprintf(w, "- **Schema-less:** `borsh.EncodeSchemaless` (-1 when the value holds nulls)\n")
	fmt.Fprintf(w, "- **Schema payload:** `borsh.Encoder.Encode` without header\n")
	fmt.Fprintf(w, "- **Timing:** mean of %d encodes/decodes with a reused encoder and decoder\n\n", iterations)

	fmt.Fprintf(w, "## Detailed Results\n\n")
	fmt.Fprintf(w, "| Case | JSON | Schema-less | Payload | Header | Compact | Packed | Enc ns | Dec ns |\n")
	fmt.Fprintf(w, "|------|------|-------------|---------|--------|---------|--------|--------|--------|\n")
	for _, r := range results {
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %d | %d | %d | %d |\n",
			truncateName(r.Name, 25), r.JSONBytes, r.SchemalessSize, r.PayloadBytes,
			r.HeaderBytes, r.CompactHeader, r.PackedBytes, r.EncodeNs, r.DecodeNs)
	}
}

func truncateName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

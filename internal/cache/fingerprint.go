// Package cache implements the query result cache for the stockroom store.
// Entries are keyed by a fingerprint of the statement, its bound parameters,
// and the pagination window, and are invalidated by table name on writes.
package cache

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Fingerprint identifies one cached page. Key is a stable hash of the
// normalized statement, parameters, and pagination window; Tables is the set
// of table names the statement references, used for write invalidation.
type Fingerprint struct {
	Key    string
	Tables []string
}

// NewFingerprint derives the cache key for a paged query. Two calls with the
// same statement (modulo whitespace and case of keywords), parameters, page,
// and page size produce the same key.
func NewFingerprint(statement string, params []any, page, pageSize int) Fingerprint {
	normalized := normalizeStatement(statement)

	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d|", normalized, page, pageSize)
	for _, p := range params {
		// The dynamic type is part of the key: SQLite compares the string
		// "1" and the integer 1 differently, so they must not share a page.
		fmt.Fprintf(h, "%T=%v|", p, p)
	}

	return Fingerprint{
		Key:    fmt.Sprintf("%016x", h.Sum64()),
		Tables: ExtractTables(statement),
	}
}

// normalizeStatement collapses runs of whitespace and lowercases the
// statement so formatting differences do not split cache entries.
func normalizeStatement(statement string) string {
	return strings.ToLower(strings.Join(strings.Fields(statement), " "))
}

// tableKeywords are the SQL keywords whose following identifier names a table.
var tableKeywords = map[string]bool{
	"from":   true,
	"join":   true,
	"into":   true,
	"update": true,
}

// ExtractTables returns the table names a statement references, lowercased
// and deduplicated. It tokenizes naively: the identifier after FROM, JOIN,
// INTO, or UPDATE is taken as a table name. Subquery parentheses and quoting
// are stripped from tokens before matching.
func ExtractTables(statement string) []string {
	fields := strings.Fields(strings.ToLower(statement))

	var tables []string
	seen := make(map[string]bool)
	for i := 0; i < len(fields)-1; i++ {
		if !tableKeywords[fields[i]] {
			continue
		}
		name := strings.Trim(fields[i+1], "(),;\"'`")
		if name == "" || name == "select" || seen[name] {
			continue
		}
		seen[name] = true
		tables = append(tables, name)
	}
	return tables
}

// References reports whether the fingerprint's statement mentions the table.
func (f Fingerprint) References(table string) bool {
	table = strings.ToLower(table)
	for _, t := range f.Tables {
		if t == table {
			return true
		}
	}
	return false
}

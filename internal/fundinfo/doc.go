// Package fundinfo pulls private-fund registry filings from the public
// disclosure API and appends them to a raw filings table.
//
// The upstream paginates POST queries and reports epoch-millisecond dates;
// the client walks every page for a filing-date window and converts dates
// to plain days. Writes are append-only on the filing id, plus a keyed
// column updater for backfilling single attributes.
package fundinfo

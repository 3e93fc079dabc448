// Package basis loads index-futures basis series (IF, IC, IM, IH) from the
// upstream chart endpoint and replace-writes them into per-contract tables.
//
// Unlike the incremental bench data, basis history is small (one year of
// dominant-contract rows per family) and the upstream recomputes dividend
// adjustments retroactively, so each run rewrites the whole table inside a
// transaction instead of appending.
package basis

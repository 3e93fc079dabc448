// Package provider implements the upstream data source adapters.
//
// Each adapter owns its endpoint, query encoding and native column names,
// and returns raw daily bars for an inclusive date window. Heterogeneous
// units are left provider-native here; package normalize rescales them into
// the canonical shape.
//
// Failure contract: an upstream error or malformed payload is reported as
// an *UnavailableError (errors.Is(err, ErrUnavailable)), which the
// orchestrator isolates to the series being synced. A window that
// legitimately contains no data yields an empty slice and a nil error.
package provider

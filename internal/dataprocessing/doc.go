// Package dataprocessing turns a fund's raw holdings disclosure into a
// canonical snapshot and classifies changes between snapshots.
//
// # Architecture
//
// The package is organized as a pipeline of small, pure stages:
//
//  1. Header location: find the true column header inside noisy
//     leading rows.
//  2. Column resolution: bind heterogeneous header text to the
//     canonical {identifier, label, quantity} schema.
//  3. Date normalization: convert Minguo (ROC) calendar dates to
//     Gregorian.
//  4. Record normalization: clean, filter, aggregate and sort raw
//     rows into Holding records.
//  5. Diffing: outer-join two snapshots and classify every
//     identifier's change.
//  6. Summarizing: group and bound the diff for human consumption.
//
// # Data Flow
//
//	Excel file → ParseWorkbook → Extraction → Snapshot → Diff → Summarizer → Report
//
// Stages 1–4 fail loudly on malformed documents (HeaderNotFound,
// MissingColumn, EmptyHoldings); stages 5–6 are total functions over
// well-formed snapshots. Date parsing never fails, it degrades to
// "date unknown" and the caller substitutes the processing date.
//
// Everything here operates on in-memory data with no I/O besides the
// initial workbook read, so independent funds can be processed in
// parallel without coordination.
package dataprocessing

// Package tasks runs library operations that touch many lists at once.
//
// # Bulk Export
//
// [Exporter.BulkExport] writes every given playlist or album to its own files:
//
//  1. A producer refreshes each list from the remote API, paced by a rate limiter.
//     A failed refresh falls back to the stored copy.
//  2. A fixed pool of workers writes each list as json, csv, markdown or txt.
//  3. A manifest (export_manifest.json) summarizing every result is written last.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
// Updates use select with default so a slow reader never stalls the export.
package tasks

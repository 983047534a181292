// Package exporter writes the pipeline's artifacts to disk: the
// canonical snapshot CSV, the classified diff CSV, and a plain-text
// rendering of the summary report. Files are written with a UTF-8 BOM
// where Excel is the likely consumer.
package exporter

// Package batch drives conversions over a drop directory.  A sweep converts
// every feed file found in the input directory into a JSONL file of the
// same base name in the output directory, then removes the input.  Sweeps
// can be run once, on file system events, or on a cron schedule.
package batch

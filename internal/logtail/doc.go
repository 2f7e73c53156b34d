// Package logtail reads the tail of a local log file.
//
// When log_file is configured the logs panel reads that file directly
// instead of asking the backend:
//
//	lines, err := logtail.Read(cfg.LogFile, cfg.LogLimit)
//
// Read walks back from the end of the file in fixed-size chunks, so a large
// log costs about as much as the lines actually returned.
package logtail

package dashboard

import "strings"

// LogFilter selects log lines by a substring of their raw text.
type LogFilter int

const (
	LogFilterAll LogFilter = iota
	LogFilterError
	LogFilterWarning
	LogFilterSuccess
	LogFilterInfo
)

// Label returns the display label for the filter.
func (f LogFilter) Label() string {
	switch f {
	case LogFilterError:
		return "Error"
	case LogFilterWarning:
		return "Warning"
	case LogFilterSuccess:
		return "Success"
	case LogFilterInfo:
		return "Info"
	default:
		return "All"
	}
}

// Next cycles all → error → warning → success → info → all.
func (f LogFilter) Next() LogFilter {
	if f >= LogFilterInfo {
		return LogFilterAll
	}
	return f + 1
}

// Match reports whether the raw line passes the filter. Matching is a
// case-insensitive substring test, not a structured severity.
func (f LogFilter) Match(line string) bool {
	lower := strings.ToLower(line)
	switch f {
	case LogFilterError:
		return strings.Contains(lower, "error")
	case LogFilterWarning:
		return strings.Contains(lower, "warning") || strings.Contains(lower, "warn")
	case LogFilterSuccess:
		return strings.Contains(lower, "success")
	case LogFilterInfo:
		return strings.Contains(lower, "info")
	default:
		return true
	}
}

// FilterLogs returns the lines that pass the filter, preserving order.
func FilterLogs(lines []string, filter LogFilter) []string {
	if filter == LogFilterAll {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if filter.Match(line) {
			out = append(out, line)
		}
	}
	return out
}

// SearchLogs narrows lines to those containing term, case-insensitively.
func SearchLogs(lines []string, term string) []string {
	term = strings.ToLower(term)
	if term == "" {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), term) {
			out = append(out, line)
		}
	}
	return out
}

// VisibleLogs applies the filter first, then the search.
func VisibleLogs(lines []string, filter LogFilter, term string) []string {
	return SearchLogs(FilterLogs(lines, filter), term)
}

// LogClass is the styling bucket of a raw log line.
type LogClass int

const (
	LogClassInfo LogClass = iota
	LogClassError
	LogClassWarning
	LogClassSuccess
)

func (c LogClass) String() string {
	switch c {
	case LogClassError:
		return "error"
	case LogClassWarning:
		return "warning"
	case LogClassSuccess:
		return "success"
	default:
		return "info"
	}
}

// ClassifyLog buckets a line for styling. Checks are case-sensitive and the
// first match wins: ERROR, then WARNING/WARN, then SUCCESS/✅, else info.
func ClassifyLog(line string) LogClass {
	switch {
	case strings.Contains(line, "ERROR"):
		return LogClassError
	case strings.Contains(line, "WARNING"), strings.Contains(line, "WARN"):
		return LogClassWarning
	case strings.Contains(line, "SUCCESS"), strings.Contains(line, "✅"):
		return LogClassSuccess
	default:
		return LogClassInfo
	}
}

package entities

import (
	"fmt"
	"strings"
)

// Trace entry severity tags. The caller surface distinguishes entries by
// their leading tag; the convention is textual, not schematic.
const (
	TagOK    = "[ok]"
	TagInfo  = "[info]"
	TagWarn  = "[warn]"
	TagError = "[error]"
)

// Trace is the ordered, append-only list of human-readable outcome records
// produced during one automation run. Entries appear in the exact order the
// corresponding steps were attempted.
type Trace []string

func (t *Trace) Okf(format string, args ...interface{}) {
	*t = append(*t, TagOK+" "+fmt.Sprintf(format, args...))
}

func (t *Trace) Infof(format string, args ...interface{}) {
	*t = append(*t, TagInfo+" "+fmt.Sprintf(format, args...))
}

func (t *Trace) Warnf(format string, args ...interface{}) {
	*t = append(*t, TagWarn+" "+fmt.Sprintf(format, args...))
}

func (t *Trace) Errorf(format string, args ...interface{}) {
	*t = append(*t, TagError+" "+fmt.Sprintf(format, args...))
}

// Severity returns the tag of a trace entry, or TagInfo for untagged lines
func Severity(entry string) string {
	for _, tag := range []string{TagOK, TagInfo, TagWarn, TagError} {
		if strings.HasPrefix(entry, tag) {
			return tag
		}
	}
	return TagInfo
}

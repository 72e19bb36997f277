package requirements

import (
	"regexp"
	"strings"
)

// ManifestEntry is one parsed requirements-file line. Op and Version are
// empty for unpinned entries ("flask" with no constraint).
type ManifestEntry struct {
	Name    string
	Op      string // "==", ">=" or "<="
	Version string
	Line    int // 1-based line number in the manifest
}

// entryPattern matches the requirement grammar this tool reads:
// a bare name, or name followed by ==, >= or <= and a version.
var entryPattern = regexp.MustCompile(
	`^([A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?)\s*(?:(==|>=|<=)\s*(\S+))?$`)

// ParseManifest parses requirements.txt content. Blank lines and #-comment
// lines are skipped silently. Lines matching no recognized grammar are
// skipped and reported through warn (if non-nil) rather than failing the
// parse; entries come back in manifest order.
func ParseManifest(content string, warn func(line int, raw string)) []ManifestEntry {
	var entries []ManifestEntry
	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := entryPattern.FindStringSubmatch(line)
		if m == nil {
			if warn != nil {
				warn(i+1, line)
			}
			continue
		}
		entries = append(entries, ManifestEntry{
			Name:    m[1],
			Op:      m[3],
			Version: m[4],
			Line:    i + 1,
		})
	}
	return entries
}

package engine

import "runtime"

// PathResolver supplies the ordered list of engine binaries to probe.
type PathResolver interface {
	Candidates() []string
}

// DefaultCandidates lists the engine locations probed on each OS, most
// likely first. Unknown systems use the "linux" entry.
var DefaultCandidates = map[string][]string{
	"linux": {
		"soffice",
		"libreoffice",
		"/usr/bin/soffice",
		"/usr/lib/libreoffice/program/soffice",
		"/opt/libreoffice/program/soffice",
		"/snap/bin/libreoffice",
	},
	"darwin": {
		"soffice",
		"/Applications/LibreOffice.app/Contents/MacOS/soffice",
		"/opt/homebrew/bin/soffice",
	},
	"windows": {
		"soffice.exe",
		`C:\Program Files\LibreOffice\program\soffice.exe`,
		`C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
	},
}

// StaticResolver is a fixed candidate list.
type StaticResolver []string

// Candidates returns the list as is.
func (s StaticResolver) Candidates() []string {
	return s
}

// NewPathResolver returns explicit candidates first, then the table entry
// for goos. An empty goos means runtime.GOOS and a nil table means
// DefaultCandidates. Duplicates and empty entries are dropped.
func NewPathResolver(goos string, table map[string][]string, explicit ...string) StaticResolver {
	if goos == "" {
		goos = runtime.GOOS
	}
	if table == nil {
		table = DefaultCandidates
	}

	platform, ok := table[goos]
	if !ok {
		platform = table["linux"]
	}

	seen := make(map[string]bool, len(explicit)+len(platform))
	out := make(StaticResolver, 0, len(explicit)+len(platform))
	for _, list := range [][]string{explicit, platform} {
		for _, c := range list {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Package buildinfo holds release metadata set at link time, e.g.
//
//	go build -ldflags "-X github.com/aidanlsb/mobrename/internal/buildinfo.Version=v0.3.0"
//
// Local builds leave them empty and fall back to the module build info.
package buildinfo

var (
	Version = ""
	Commit  = ""
	// Date is the commit time in RFC 3339.
	Date = ""
)

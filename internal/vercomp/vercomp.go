package vercomp

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// compare result
const (
	Older Result = -1
	Same  Result = 0
	Newer Result = 1
)

type Result int

func (r Result) String() string {
	switch r {
	case Newer:
		return "newer"
	case Same:
		return "same"
	case Older:
		return "older"
	default:
		return "unknown"
	}
}

// Version is a two part release number. The zero value means unknown and never compares newer.
type Version struct {
	Major uint64
	Minor uint64
}

// FromBuild converts a packed MMmm build number, 150 is v1.50.
func FromBuild(build int) Version {
	if build < 0 {
		return Version{}
	}
	return Version{
		Major: uint64(build / 100),
		Minor: uint64(build % 100),
	}
}

// Parse reads tags of the form v<major>.<minor>. Anything else yields the zero Version.
func Parse(tag string) Version {
	tag = strings.TrimSpace(tag)
	if len(tag) < 2 || (tag[0] != 'v' && tag[0] != 'V') {
		return Version{}
	}
	rest := tag[1:]
	dot := strings.IndexByte(rest, '.')
	if dot < 1 {
		return Version{}
	}

	if sv, err := semver.NewVersion(rest); err == nil {
		return Version{Major: sv.Major(), Minor: sv.Minor()}
	}

	// tags like v1.05 or v2.x still carry usable leading digits
	major, ok := leadingNumber(rest[:dot])
	if !ok {
		return Version{}
	}
	minor, _ := leadingNumber(rest[dot+1:])
	return Version{Major: major, Minor: minor}
}

func leadingNumber(s string) (uint64, bool) {
	var (
		n      uint64
		digits int
	)
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + uint64(c-'0')
		digits++
	}
	return n, digits > 0
}

func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

func (v Version) String() string {
	return fmt.Sprintf("v%d.%02d", v.Major, v.Minor)
}

// Compare reports how v relates to other, major first then minor.
func (v Version) Compare(other Version) Result {
	switch {
	case v.Major > other.Major:
		return Newer
	case v.Major < other.Major:
		return Older
	case v.Minor > other.Minor:
		return Newer
	case v.Minor < other.Minor:
		return Older
	default:
		return Same
	}
}

// Compare parses remoteTag and compares it with the running version.
func Compare(remoteTag string, local Version) Result {
	return Parse(remoteTag).Compare(local)
}

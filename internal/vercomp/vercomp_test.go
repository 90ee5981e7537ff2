package vercomp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type compareCase struct {
	Name     string
	Remote   string
	Local    Version
	Expected Result
}

// generateCompareTestCases crosses every version in the grid with every other one
func generateCompareTestCases(maxMajor, maxMinor uint64) []compareCase {
	var testCases []compareCase
	for rm := uint64(0); rm <= maxMajor; rm++ {
		for rn := uint64(0); rn <= maxMinor; rn++ {
			for lm := uint64(0); lm <= maxMajor; lm++ {
				for ln := uint64(0); ln <= maxMinor; ln++ {
					expected := Same
					switch {
					case rm > lm, rm == lm && rn > ln:
						expected = Newer
					case rm < lm, rm == lm && rn < ln:
						expected = Older
					}
					remote := fmt.Sprintf("v%d.%d", rm, rn)
					testCases = append(testCases, compareCase{
						Name:     fmt.Sprintf("Compare_%s_With_v%d.%d", remote, lm, ln),
						Remote:   remote,
						Local:    Version{Major: lm, Minor: ln},
						Expected: expected,
					})
				}
			}
		}
	}
	return testCases
}

func TestCompareGrid(t *testing.T) {
	for _, tc := range generateCompareTestCases(3, 12) {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Expected, Compare(tc.Remote, tc.Local))
		})
	}
}

func TestCompare(t *testing.T) {
	testCases := []compareCase{
		{Name: "minor bump", Remote: "v2.10", Local: Version{2, 9}, Expected: Newer},
		{Name: "minor is numeric", Remote: "v1.10", Local: Version{1, 9}, Expected: Newer},
		{Name: "major bump", Remote: "v3.0", Local: Version{2, 99}, Expected: Newer},
		{Name: "older major", Remote: "v1.0", Local: Version{2, 0}, Expected: Older},
		{Name: "same", Remote: "v1.50", Local: Version{1, 50}, Expected: Same},
		{Name: "upper case prefix", Remote: "V2.1", Local: Version{2, 0}, Expected: Newer},
		{Name: "patch ignored", Remote: "v2.1.7", Local: Version{2, 1}, Expected: Same},
		{Name: "pre-release ignored", Remote: "v2.1-rc1", Local: Version{2, 1}, Expected: Same},
		{Name: "zero padded minor", Remote: "v1.05", Local: Version{1, 5}, Expected: Same},
		{Name: "unparsable is never newer", Remote: "latest", Local: Version{0, 1}, Expected: Older},
		{Name: "unparsable against zero", Remote: "unknown", Local: Version{}, Expected: Same},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Expected, Compare(tc.Remote, tc.Local))
		})
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		Name     string
		Tag      string
		Expected Version
	}{
		{Name: "plain", Tag: "v2.10", Expected: Version{2, 10}},
		{Name: "surrounding space", Tag: " v1.2 ", Expected: Version{1, 2}},
		{Name: "trailing letters", Tag: "v2.x", Expected: Version{2, 0}},
		{Name: "empty", Tag: "", Expected: Version{}},
		{Name: "prefix only", Tag: "v", Expected: Version{}},
		{Name: "missing prefix", Tag: "1.0", Expected: Version{}},
		{Name: "wrong prefix", Tag: "x1.0", Expected: Version{}},
		{Name: "missing dot", Tag: "v12", Expected: Version{}},
		{Name: "dot first", Tag: "v.5", Expected: Version{}},
		{Name: "letters", Tag: "vx.y", Expected: Version{}},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Expected, Parse(tc.Tag))
		})
	}
}

func TestFromBuild(t *testing.T) {
	require.Equal(t, Version{1, 50}, FromBuild(150))
	require.Equal(t, "v1.50", FromBuild(150).String())
	require.Equal(t, "v2.09", FromBuild(209).String())
	require.Equal(t, Version{}, FromBuild(-1))
	require.True(t, FromBuild(0).IsZero())
}

package fieldvalue

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// RegGuidPattern matches the dashed GUID string form, mirroring the
// original's RegGuidPattern regexp.
var RegGuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// guidFieldMaxLen is the max literal length for each of the 11 comma-separated
// fields of a C-style GUID structure literal (spec.md §4.3).
var guidFieldMaxLen = [11]int{11, 6, 6, 5, 4, 4, 4, 4, 4, 4, 6}

// GuidFieldMaxLen exposes the per-field length table to the tokenizer.
func GuidFieldMaxLen() [11]int { return guidFieldMaxLen }

// GuidStringToGuidStructureString converts "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx"
// into the 11-field C-brace GUID structure literal the tokenizer re-parses
// as a brace-array, e.g.:
//
//	{0x12345678, 0x1234, 0x1234, {0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}}
func GuidStringToGuidStructureString(guid string) (string, error) {
	parts := strings.Split(guid, "-")
	if len(parts) != 5 || len(parts[0]) != 8 || len(parts[1]) != 4 || len(parts[2]) != 4 ||
		len(parts[3]) != 4 || len(parts[4]) != 12 {
		return "", fmt.Errorf("fieldvalue: malformed GUID string %q", guid)
	}
	timeLow, err := strconv.ParseUint(parts[0], 16, 32)
	if err != nil {
		return "", fmt.Errorf("fieldvalue: malformed GUID string %q: %w", guid, err)
	}
	timeMid, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return "", fmt.Errorf("fieldvalue: malformed GUID string %q: %w", guid, err)
	}
	timeHiVer, err := strconv.ParseUint(parts[2], 16, 16)
	if err != nil {
		return "", fmt.Errorf("fieldvalue: malformed GUID string %q: %w", guid, err)
	}
	clockHi, err := strconv.ParseUint(parts[3][0:2], 16, 8)
	if err != nil {
		return "", fmt.Errorf("fieldvalue: malformed GUID string %q: %w", guid, err)
	}
	clockLo, err := strconv.ParseUint(parts[3][2:4], 16, 8)
	if err != nil {
		return "", fmt.Errorf("fieldvalue: malformed GUID string %q: %w", guid, err)
	}
	nodeBytes := make([]string, 6)
	for i := 0; i < 6; i++ {
		b, err := strconv.ParseUint(parts[4][i*2:i*2+2], 16, 8)
		if err != nil {
			return "", fmt.Errorf("fieldvalue: malformed GUID string %q: %w", guid, err)
		}
		nodeBytes[i] = fmt.Sprintf("0x%02x", b)
	}
	return fmt.Sprintf("{0x%08x, 0x%04x, 0x%04x, {0x%02x, 0x%02x, %s}}",
		timeLow, timeMid, timeHiVer, clockHi, clockLo, strings.Join(nodeBytes, ", ")), nil
}

// ParseGuidBinary packs a dashed GUID string into its 16-byte Microsoft
// binary serialization (little-endian Data1/2/3, big-endian Data4),
// matching the layout GuidStringToGuidStructureString's brace form encodes.
func ParseGuidBinary(guid string) (*big.Int, int, error) {
	parts := strings.Split(guid, "-")
	if len(parts) != 5 {
		return nil, 0, fmt.Errorf("fieldvalue: malformed GUID string %q", guid)
	}
	timeLow, err1 := strconv.ParseUint(parts[0], 16, 32)
	timeMid, err2 := strconv.ParseUint(parts[1], 16, 16)
	timeHiVer, err3 := strconv.ParseUint(parts[2], 16, 16)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, 0, fmt.Errorf("fieldvalue: malformed GUID string %q", guid)
	}
	b := make([]byte, 16)
	b[0], b[1], b[2], b[3] = byte(timeLow), byte(timeLow>>8), byte(timeLow>>16), byte(timeLow>>24)
	b[4], b[5] = byte(timeMid), byte(timeMid>>8)
	b[6], b[7] = byte(timeHiVer), byte(timeHiVer>>8)
	rest := parts[3] + parts[4]
	if len(rest) != 16 {
		return nil, 0, fmt.Errorf("fieldvalue: malformed GUID string %q", guid)
	}
	for i := 0; i < 8; i++ {
		v, err := strconv.ParseUint(rest[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, 0, fmt.Errorf("fieldvalue: malformed GUID string %q", guid)
		}
		b[8+i] = byte(v)
	}
	return packLE(b), 16, nil
}

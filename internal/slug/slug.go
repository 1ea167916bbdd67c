package slug

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

const (
	maxBaseLen = 60
	hashHexLen = 6
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make derives a URL-safe identifier from the title, suffixed with a short
// hash of the source URL so identical titles from different URLs stay
// distinct.
func Make(title, sourceURL string) string {
	base := nonAlnum.ReplaceAllString(strings.ToLower(title), "-")
	base = strings.Trim(base, "-")
	if len(base) > maxBaseLen {
		base = strings.TrimRight(base[:maxBaseLen], "-")
	}

	sum := md5.Sum([]byte(sourceURL))
	suffix := hex.EncodeToString(sum[:])[:hashHexLen]

	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

package service

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	maxSlugBase     = 96
	slugSuffixLen   = 4
	slugSuffixSpace = 36 * 36 * 36 * 36
	maxSlugAttempts = 3
)

// newSlug builds "<title-slug>-<4 base36 chars>". The suffix keeps slugs of
// identically titled notes apart.
func newSlug(title string) string {
	base := slug.Make(title)
	if len(base) > maxSlugBase {
		base = strings.TrimRight(base[:maxSlugBase], "-")
	}
	if base == "" {
		base = "untitled"
	}
	return base + "-" + slugSuffix()
}

func slugSuffix() string {
	id := uuid.New()
	n := binary.BigEndian.Uint32(id[:4]) % slugSuffixSpace
	s := strconv.FormatUint(uint64(n), 36)
	return strings.Repeat("0", slugSuffixLen-len(s)) + s
}

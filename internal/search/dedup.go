// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strings"
	"unicode"

	"github.com/openlit/harvester/pkg/types"
)

// minTrustedDOILen: DOIs at or under this length are treated as
// untrustworthy and the record falls back to title identity. Empirical
// threshold, tunable; not a protocol requirement.
const minTrustedDOILen = 5

// titleKeyLen bounds the normalized-title identity key.
const titleKeyLen = 60

// fuzzyLenTolerance is the maximum length difference between two truncated
// titles for the containment fallback to merge them. Kept tight so
// distinct short-titled works are not collapsed.
const fuzzyLenTolerance = 5

// Deduplicate collapses records referring to the same work, preserving
// first-seen order among survivors. Identity is DOI-first: a trusted
// normalized DOI wins; otherwise the first titleKeyLen characters of the
// punctuation-stripped lower-cased title. Title-keyed records additionally
// merge when one truncated title contains the other and their lengths
// differ by less than fuzzyLenTolerance, which catches near-identical
// titles returned with minor formatting differences across sources.
//
// Running Deduplicate on its own output yields the same set.
func Deduplicate(records []types.Record) []types.Record {
	seen := make(map[string]bool)
	var titleKeys []string
	var unique []types.Record

	for _, rec := range records {
		doi := normalizeDOI(rec.DOI)
		if len(doi) > minTrustedDOILen && doi != "n/a" {
			key := "doi:" + doi
			if seen[key] {
				continue
			}
			seen[key] = true
			unique = append(unique, rec)
			continue
		}

		tkey := titleKey(rec.Title)
		if seen["title:"+tkey] || fuzzyMatch(tkey, titleKeys) {
			continue
		}
		seen["title:"+tkey] = true
		titleKeys = append(titleKeys, tkey)
		unique = append(unique, rec)
	}
	return unique
}

// titleKey normalizes a title to its identity form: lower-cased,
// punctuation stripped, truncated to titleKeyLen characters.
func titleKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	key := strings.Join(strings.Fields(b.String()), " ")
	if len(key) > titleKeyLen {
		key = key[:titleKeyLen]
	}
	return key
}

// fuzzyMatch reports whether key containment-matches any previously seen
// title key of similar length.
func fuzzyMatch(key string, prior []string) bool {
	for _, p := range prior {
		diff := len(key) - len(p)
		if diff < 0 {
			diff = -diff
		}
		if diff >= fuzzyLenTolerance {
			continue
		}
		if strings.Contains(key, p) || strings.Contains(p, key) {
			return true
		}
	}
	return false
}

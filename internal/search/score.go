// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"sort"
	"strings"

	"github.com/openlit/harvester/pkg/types"
)

// minTitleLen is the shortest trimmed title considered a usable record.
const minTitleLen = 10

// titleMatchWeight and abstractMatchWeight combine into the relevance
// score: 2 points per query term found in the title token set, 1 point
// when any term appears in the abstract.
const (
	titleMatchWeight    = 2
	abstractMatchWeight = 1
)

// ValidateAndScore discards unusable candidates and assigns each survivor
// a relevance score against query.
//
// A candidate is unusable when its title is empty, the "No Title"
// placeholder, or shorter than minTitleLen after trimming. Candidates with
// no relevance signal at all are discarded only when the query has more
// than two terms; short queries are assumed precise, so everything they
// return is kept (recall over precision).
func ValidateAndScore(records []types.Record, query string) []types.Record {
	terms := queryTerms(query)

	kept := records[:0:0]
	for _, rec := range records {
		title := strings.TrimSpace(rec.Title)
		if title == "" || title == types.PlaceholderTitle || len(title) < minTitleLen {
			continue
		}

		score := scoreRecord(rec, terms)
		if score == 0 && len(terms) > 2 {
			continue
		}
		rec.RelevanceScore = score
		kept = append(kept, rec)
	}
	return kept
}

// SortByScore stable-sorts records by relevance score descending; ties
// keep arrival order.
func SortByScore(records []types.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RelevanceScore > records[j].RelevanceScore
	})
}

// queryTerms splits query into lower-cased whitespace-delimited terms.
func queryTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

func scoreRecord(rec types.Record, terms []string) int {
	titleTokens := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(rec.Title)) {
		titleTokens[tok] = true
	}
	abstract := strings.ToLower(rec.Abstract)

	titleHits := 0
	abstractHit := false
	for _, term := range terms {
		if titleTokens[term] {
			titleHits++
		}
		if !abstractHit && abstract != "" && strings.Contains(abstract, term) {
			abstractHit = true
		}
	}

	score := titleHits * titleMatchWeight
	if abstractHit {
		score += abstractMatchWeight
	}
	return score
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strconv"

	"github.com/openlit/harvester/pkg/types"
)

// FilterByYear keeps candidates whose publication year falls inside the
// closed interval r. Candidates with an unknown year are always kept:
// absence of evidence is not evidence of absence.
func FilterByYear(records []types.Record, r types.YearRange) []types.Record {
	kept := records[:0:0]
	for _, rec := range records {
		if rec.Year == "" {
			kept = append(kept, rec)
			continue
		}
		year, err := strconv.Atoi(rec.Year)
		if err != nil {
			kept = append(kept, rec)
			continue
		}
		if year >= r.Start && year <= r.End {
			kept = append(kept, rec)
		}
	}
	return kept
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOaireListAbsorbsBothShapes(t *testing.T) {
	var l oaireList
	if err := json.Unmarshal([]byte(`{"$": "single value"}`), &l); err != nil {
		t.Fatalf("object shape: %v", err)
	}
	if l.First() != "single value" {
		t.Errorf("First() = %q", l.First())
	}

	if err := json.Unmarshal([]byte(`[{"$": "first"}, {"$": "second"}]`), &l); err != nil {
		t.Fatalf("array shape: %v", err)
	}
	if l.First() != "first" {
		t.Errorf("First() = %q", l.First())
	}

	l = nil
	if l.First() != "" {
		t.Errorf("First() on empty list = %q", l.First())
	}
}

func TestOpenAIREFetch(t *testing.T) {
	// title as a single object, description as an array: both shapes occur
	// in real responses.
	body := `{
	  "response": {
	    "results": {
	      "result": [{
	        "metadata": {
	          "oaf:entity": {
	            "oaf:result": {
	              "title": {"$": "Distributed gastric cancer registries"},
	              "description": [{"$": "A registry study."}, {"$": "Second abstract."}],
	              "dateofacceptance": {"$": "2021-06-01"},
	              "creator": [{"$": "A. Researcher"}],
	              "pid": [
	                {"@classid": "pmid", "$": "999"},
	                {"@classid": "DOI", "$": "10.1234/oaire.1"}
	              ]
	            }
	          }
	        }
	      }]
	    }
	  }
	}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("OA"); got != "true" {
			t.Errorf("OA param = %q, want true", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	defer ts.Close()

	old := openaireBase
	openaireBase = ts.URL
	defer func() { openaireBase = old }()

	s := &OpenAIRE{Client: testClient()}
	records, err := s.Fetch(context.Background(), "gastric cancer", 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}

	r := records[0]
	if r.Title != "Distributed gastric cancer registries" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Abstract != "A registry study." {
		t.Errorf("Abstract = %q", r.Abstract)
	}
	if r.Year != "2021" {
		t.Errorf("Year = %q", r.Year)
	}
	// The DOI pid is picked case-insensitively; other pid classes ignored.
	if r.DOI != "10.1234/oaire.1" {
		t.Errorf("DOI = %q", r.DOI)
	}
	if r.Authors != "A. Researcher" {
		t.Errorf("Authors = %q", r.Authors)
	}
}

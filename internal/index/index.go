// Package index implements the forward/inverted content index and AEAD
// persistence: searchable attributes keyed by CID, an additive scoring
// search, and a sealed on-disk representation with key-rotation detection.
package index

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Entry is the forward-index record for one CID.
type Entry struct {
	CID         string
	ContentType string
	Metadata    map[string]string
	Tokens      []string
	Tags        []string
	Timestamp   time.Time
}

// Index is a multi-reader/single-writer forward+inverted index: a single
// RWMutex guards both maps, matching the coarse registry-locking pattern
// used elsewhere in this module (see pkg/codec.Registry).
type Index struct {
	mu       sync.RWMutex
	forward  map[string]Entry
	byToken  map[string]map[string]struct{}
	byTag    map[string]map[string]struct{}
	wordFreq map[string]int
	tagFreq  map[string]int
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		forward:  make(map[string]Entry),
		byToken:  make(map[string]map[string]struct{}),
		byTag:    make(map[string]map[string]struct{}),
		wordFreq: make(map[string]int),
		tagFreq:  make(map[string]int),
	}
}

// Tokenize lowercases text and splits on anything that isn't an ASCII
// letter or digit (so non-ASCII letters also separate tokens), discarding
// empty tokens. Stop-word filtering is intentionally
// omitted; callers needing it can filter the returned tokens themselves.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return fields
}

// Put indexes contentType/metadata/bodyText/tags under cid, unioning tags
// and tokens into both the forward entry and the inverted maps, and
// bumping word/tag frequency counters. Stats counts distinct tokens and
// tags from the inverted maps, not from these counters.
func (idx *Index) Put(cid, contentType string, metadata map[string]string, bodyText string, tags []string) {
	tokens := Tokenize(bodyText)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.forward[cid] = Entry{
		CID:         cid,
		ContentType: contentType,
		Metadata:    metadata,
		Tokens:      tokens,
		Tags:        append([]string(nil), tags...),
		Timestamp:   timeNow(),
	}

	for _, tok := range tokens {
		set, ok := idx.byToken[tok]
		if !ok {
			set = make(map[string]struct{})
			idx.byToken[tok] = set
		}
		set[cid] = struct{}{}
		idx.wordFreq[tok]++
	}
	for _, tag := range tags {
		set, ok := idx.byTag[tag]
		if !ok {
			set = make(map[string]struct{})
			idx.byTag[tag] = set
		}
		set[cid] = struct{}{}
		idx.tagFreq[tag]++
	}
}

// timeNow is a seam for deterministic tests.
var timeNow = time.Now

// Remove deletes cid's forward entry and removes it from every inverted
// posting list it appeared in.
func (idx *Index) Remove(cid string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e, ok := idx.forward[cid]
	if !ok {
		return
	}
	for _, tok := range e.Tokens {
		if set, ok := idx.byToken[tok]; ok {
			delete(set, cid)
			if len(set) == 0 {
				delete(idx.byToken, tok)
			}
		}
	}
	for _, tag := range e.Tags {
		if set, ok := idx.byTag[tag]; ok {
			delete(set, cid)
			if len(set) == 0 {
				delete(idx.byTag, tag)
			}
		}
	}
	delete(idx.forward, cid)
}

// Get returns the forward entry for cid.
func (idx *Index) Get(cid string) (Entry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	e, ok := idx.forward[cid]
	return e, ok
}

// Stats summarizes the index's size for the content-service façade's
// stats() operation.
type Stats struct {
	TotalDocuments int
	UniqueWords    int
	UniqueTags     int
}

// Stats returns aggregate counters over the index.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return Stats{
		TotalDocuments: len(idx.forward),
		UniqueWords:    len(idx.byToken),
		UniqueTags:     len(idx.byTag),
	}
}

// Query is a search request.
type Query struct {
	Text        string
	Tags        []string
	ContentType string
	Limit       int
}

// Result is one ranked search hit.
type Result struct {
	CID      string
	Score    float64
	Metadata map[string]string
}

// Scoring weights for the additive model score = alpha*token_matches +
// beta*tag_matches. Exported so callers tuning
// relevance don't need to fork the package.
const (
	AlphaTokenWeight = 1.0
	BetaTagWeight    = 2.0
)

// Search ranks CIDs by an additive token/tag match score, breaking ties by
// CID lexicographic order, and optionally filters by content type.
func (idx *Index) Search(q Query) []Result {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	tokenMatches := make(map[string]int)
	for _, tok := range Tokenize(q.Text) {
		if set, ok := idx.byToken[tok]; ok {
			for cid := range set {
				tokenMatches[cid]++
			}
		}
	}
	tagMatches := make(map[string]int)
	for _, tag := range q.Tags {
		if set, ok := idx.byTag[tag]; ok {
			for cid := range set {
				tagMatches[cid]++
			}
		}
	}

	candidates := make(map[string]struct{})
	for cid := range tokenMatches {
		candidates[cid] = struct{}{}
	}
	for cid := range tagMatches {
		candidates[cid] = struct{}{}
	}
	// When the query carries no text/tags, score everything that matches
	// the content-type filter so list-by-type style queries still work.
	if q.Text == "" && len(q.Tags) == 0 {
		for cid := range idx.forward {
			candidates[cid] = struct{}{}
		}
	}

	var results []Result
	for cid := range candidates {
		e, ok := idx.forward[cid]
		if !ok {
			continue
		}
		if q.ContentType != "" && e.ContentType != q.ContentType {
			continue
		}
		score := AlphaTokenWeight*float64(tokenMatches[cid]) + BetaTagWeight*float64(tagMatches[cid])
		results = append(results, Result{CID: cid, Score: score, Metadata: e.Metadata})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CID < results[j].CID
	})

	if q.Limit > 0 && q.Limit < len(results) {
		results = results[:q.Limit]
	}
	return results
}

// ListByType returns every CID indexed under contentType.
func (idx *Index) ListByType(contentType string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []string
	for cid, e := range idx.forward {
		if e.ContentType == contentType {
			out = append(out, cid)
		}
	}
	sort.Strings(out)
	return out
}

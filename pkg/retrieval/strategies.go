package retrieval

import (
	"context"
	"sort"
	"strings"
)

// StaticStrategy returns the same fixed document set for every query.
type StaticStrategy struct {
	docs []Document
}

func NewStaticStrategy(docs []Document) *StaticStrategy {
	return &StaticStrategy{docs: append([]Document(nil), docs...)}
}

func (s *StaticStrategy) Retrieve(_ context.Context, _ string) ([]Document, error) {
	return append([]Document(nil), s.docs...), nil
}

// KeywordStrategy scores an in-memory corpus by case-insensitive term overlap
// with the query and returns matching documents by descending score. Ties
// keep corpus order.
type KeywordStrategy struct {
	corpus []Document
}

func NewKeywordStrategy(corpus []Document) *KeywordStrategy {
	return &KeywordStrategy{corpus: append([]Document(nil), corpus...)}
}

func (s *KeywordStrategy) Retrieve(_ context.Context, query string) ([]Document, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	var matched []Document
	for _, doc := range s.corpus {
		text := strings.ToLower(doc.Text)
		hits := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		doc.Score = float64(hits) / float64(len(terms))
		matched = append(matched, doc)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})
	return matched, nil
}

package lexical

import "math"

// Document is a single candidate scored against a query by Score.
type Document struct {
	ID   string
	Text string
}

// Score computes Okapi BM25 for every document against the query, using a
// candidate-set-local document frequency and average length rather than a
// corpus-wide index — BM25 here is only ever applied to an already-narrowed
// shortlist. k1 and b are the usual Okapi BM25 tunables (term-frequency
// saturation and length normalization). Returns 0 for every document on an
// empty query or empty candidate set.
func Score(query string, docs []Document, k1, b float64) map[string]float64 {
	scores := make(map[string]float64, len(docs))
	if len(docs) == 0 {
		return scores
	}

	queryTokens := Tokenize(query)
	for _, d := range docs {
		scores[d.ID] = 0
	}
	if len(queryTokens) == 0 {
		return scores
	}

	docTokens := make(map[string][]string, len(docs))
	totalLen := 0
	for _, d := range docs {
		toks := Tokenize(d.Text)
		docTokens[d.ID] = toks
		totalLen += len(toks)
	}
	avgDocLen := float64(totalLen) / float64(len(docs))
	if avgDocLen == 0 {
		avgDocLen = 1
	}

	n := float64(len(docs))
	df := make(map[string]int, len(queryTokens))
	for _, term := range uniqueTerms(queryTokens) {
		for _, d := range docs {
			if containsToken(docTokens[d.ID], term) {
				df[term]++
			}
		}
	}

	for _, d := range docs {
		toks := docTokens[d.ID]
		tf := termFrequencies(toks)
		docLen := float64(len(toks))

		var score float64
		for _, term := range queryTokens {
			f, ok := tf[term]
			if !ok {
				continue
			}
			termDF := float64(df[term])
			idf := math.Log((n-termDF+0.5)/(termDF+0.5) + 1)
			numerator := float64(f) * (k1 + 1)
			denominator := float64(f) + k1*(1-b+b*(docLen/avgDocLen))
			score += idf * (numerator / denominator)
		}
		scores[d.ID] = score
	}

	return scores
}

func termFrequencies(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

func uniqueTerms(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func containsToken(tokens []string, term string) bool {
	for _, t := range tokens {
		if t == term {
			return true
		}
	}
	return false
}

package rewrite

import "sort"

// Overlap records a token that more than one rule would rewrite in a file.
type Overlap struct {
	Path  string
	Token string
	Rules []int
}

// FindOverlaps evaluates rules against every path and reports each token
// claimed by two or more matching rules. Rules that chain on purpose (a
// later rule keyed on an earlier rule's output) are not overlaps.
func FindOverlaps(rules RuleSet, paths []string) []Overlap {
	var overlaps []Overlap

	for _, p := range paths {
		claims := make(map[string][]int)

		for _, i := range applicableRules(rules, p) {
			for _, r := range rules[i].mapping {
				claims[r.Token] = append(claims[r.Token], i)
			}
		}

		tokens := make([]string, 0, len(claims))
		for token, owners := range claims {
			if len(owners) > 1 {
				tokens = append(tokens, token)
			}
		}

		sort.Strings(tokens)

		for _, token := range tokens {
			overlaps = append(overlaps, Overlap{Path: p, Token: token, Rules: claims[token]})
		}
	}

	return overlaps
}

// SharedTokens lists tokens declared by more than one rule with the owning
// rule indexes. Shared tokens are expected when predicates partition files.
func SharedTokens(rules RuleSet) map[string][]int {
	owners := make(map[string][]int)

	for i, rule := range rules {
		for _, r := range rule.mapping {
			owners[r.Token] = append(owners[r.Token], i)
		}
	}

	for token, idx := range owners {
		if len(idx) < 2 {
			delete(owners, token)
		}
	}

	return owners
}

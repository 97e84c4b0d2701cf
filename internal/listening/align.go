package listening

import "slices"

// OpKind identifies one step of a word alignment.
type OpKind string

const (
	OpMatch        OpKind = "match"
	OpSubstitution OpKind = "substitution"
	OpOmission     OpKind = "omission"
	OpInsertion    OpKind = "insertion"
)

// Operation is a single aligned step. Expected is empty for insertions and
// Actual is empty for omissions.
type Operation struct {
	Kind     OpKind
	Expected string
	Actual   string
}

// Align computes a minimum edit distance alignment between reference and
// hypothesis tokens and returns the operations in reference order.
//
// When several alignments share the minimal cost the backtrace prefers, in
// order: match, substitution, omission, insertion.
func Align(reference, hypothesis []string) []Operation {
	m, n := len(reference), len(hypothesis)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
		dp[i][0] = i // omit every reference word
	}
	for j := 0; j <= n; j++ {
		dp[0][j] = j // insert every hypothesis word
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 1
			if reference[i-1] == hypothesis[j-1] {
				cost = 0
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
		}
	}

	ops := make([]Operation, 0, max(m, n))
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && reference[i-1] == hypothesis[j-1] && dp[i][j] == dp[i-1][j-1]:
			ops = append(ops, Operation{Kind: OpMatch, Expected: reference[i-1], Actual: hypothesis[j-1]})
			i--
			j--
		case i > 0 && j > 0 && dp[i][j] == dp[i-1][j-1]+1:
			ops = append(ops, Operation{Kind: OpSubstitution, Expected: reference[i-1], Actual: hypothesis[j-1]})
			i--
			j--
		case i > 0 && dp[i][j] == dp[i-1][j]+1:
			ops = append(ops, Operation{Kind: OpOmission, Expected: reference[i-1]})
			i--
		case j > 0 && dp[i][j] == dp[i][j-1]+1:
			ops = append(ops, Operation{Kind: OpInsertion, Actual: hypothesis[j-1]})
			j--
		case i > 0:
			ops = append(ops, Operation{Kind: OpOmission, Expected: reference[i-1]})
			i--
		default:
			ops = append(ops, Operation{Kind: OpInsertion, Actual: hypothesis[j-1]})
			j--
		}
	}

	slices.Reverse(ops)
	return ops
}

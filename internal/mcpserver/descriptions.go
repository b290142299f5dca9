package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and key thresholds.

func describeRank() string {
	return `Ranks candidate web services (or any alternatives) on numeric QoS criteria with WASPAS, VIKOR and Fuzzy TOPSIS, using entropy-derived criterion weights.

USE WHEN:
- Choosing among functionally equivalent services by measured quality
- Comparing how different decision methods order the same candidates
- Shortlisting the top N services from a QoS dataset
- Checking whether a ranking is robust across methods

INTERPRETING RESULTS:
- Rank 1 is the most preferred alternative under each method
- WASPAS score: higher is better, between 0 and 1
- VIKOR Q: lower is better, between 0 and 1
- Fuzzy TOPSIS closeness: higher is better; 1 means the ideal band on every fuzzified criterion
- Equal scores share a rank (dense ranking: 1, 1, 2)
- Agreement rho near 1: methods agree; near 0 or negative: the choice depends on the method
- Criteria named like "Response Time" or "Latency" are costs (lower is better) unless overridden
- Warnings flag degenerate data (constant columns, zero costs) that got fallback values

METRICS RETURNED:
- Per-row: id, criterion values, attributes, score and rank per method
- Weights: entropy weight per criterion (sums to 1)
- Summary: min, max, mean, std dev, P50, P90 of scores per method
- Agreement: pairwise rank correlation between methods
- Dataset: rows read, dropped as incomplete or duplicate, kept
- Fingerprint: content hash of the decision matrix`
}

func describeWeights() string {
	return `Computes objective criterion weights from a QoS dataset with the Shannon entropy method, without ranking.

USE WHEN:
- Explaining which criteria drive a ranking
- Finding criteria that do not discriminate between candidates
- Checking polarity assignment (benefit vs cost) before ranking

INTERPRETING RESULTS:
- Higher weight: the criterion varies more across alternatives and carries more information
- Entropy near 1 / diversification near 0: values are nearly identical, the criterion barely matters
- Weights always sum to 1; a uniform_weights warning means no criterion discriminated
- Polarity cost: lower raw values are better and are normalized as min/value

METRICS RETURNED:
- Per-criterion: name, polarity, entropy, diversification, weight
- Alternatives: number of rows weighed
- Warnings: degenerate columns and fallbacks`
}

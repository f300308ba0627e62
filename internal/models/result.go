package models

// SearchResult is a single hit. SimilarityScore is the squared L2 distance: lower is more similar.
type SearchResult struct {
	URL             string  `json:"url"`
	Content         string  `json:"content"`
	SimilarityScore float64 `json:"similarity_score"`
}

// SearchResponse is the outcome of one executed search.
type SearchResponse struct {
	Results             []SearchResult `json:"results"`
	Query               SearchRequest  `json:"query"`
	TotalChunksSearched int            `json:"total_chunks_searched"`
}

// URLs returns the result URLs in rank order.
func (r *SearchResponse) URLs() []string {
	urls := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		urls = append(urls, res.URL)
	}
	return urls
}

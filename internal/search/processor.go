package search

import "github.com/hyperjump/recall/internal/models"

// ProcessRequest validates the search request before it reaches the index.
func ProcessRequest(req *models.SearchRequest) error {
	return req.Validate()
}

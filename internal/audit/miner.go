package audit

import (
	"regexp"

	"gdprauditor/internal/infra/crawler/types"
)

var urlPattern = regexp.MustCompile(`https://[^\s]+`)

// MineLinks scans every captured response body for absolute URLs. Duplicates
// are kept; classification downstream is duplicate tolerant.
func MineLinks(bodies []types.CapturedResponse) []string {
	var urls []string
	for _, resp := range bodies {
		urls = append(urls, urlPattern.FindAllString(string(resp.Body), -1)...)
	}
	return urls
}

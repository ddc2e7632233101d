package collector

// Fetcher retrieves a policy document's raw content. Any failure (malformed
// URL, transport error, non-2xx status) yields an empty string; a missing
// document weakens the audit but never blocks it.
type Fetcher interface {
	Fetch(rawURL string) string
}

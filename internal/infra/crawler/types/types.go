package types

// CapturedResponse is the raw body of one network response observed on the
// browser session during a domain visit.
type CapturedResponse struct {
	URL  string
	Body []byte
}

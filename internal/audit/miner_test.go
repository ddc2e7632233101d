package audit

import (
	"testing"

	"gdprauditor/internal/infra/crawler/types"

	"github.com/stretchr/testify/assert"
)

func TestMineLinks(t *testing.T) {
	bodies := []types.CapturedResponse{
		{Body: []byte(`<a href="https://example.test/cookie-policy">cookies</a>`)},
		{Body: []byte(`plain text https://example.test/privacy and junk`)},
		{Body: []byte(`no links here, http://insecure.test/ does not count`)},
	}

	urls := MineLinks(bodies)
	assert.Equal(t, []string{
		`https://example.test/cookie-policy">cookies</a>`,
		"https://example.test/privacy",
	}, urls)
}

func TestMineLinksKeepsDuplicates(t *testing.T) {
	bodies := []types.CapturedResponse{
		{Body: []byte("https://example.test/a https://example.test/a")},
		{Body: []byte("https://example.test/a")},
	}
	assert.Len(t, MineLinks(bodies), 3)
}

func TestMineLinksEmpty(t *testing.T) {
	assert.Empty(t, MineLinks(nil))
	assert.Empty(t, MineLinks([]types.CapturedResponse{{Body: []byte("nothing")}}))
}

package flickr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

func TestParsePage(t *testing.T) {
	body := []byte(`{"photos":{"page":1,"pages":1986,"perpage":100,"total":"198524",` +
		`"photo":[{"id":"id","owner":"owner","secret":"secret","server":"server","farm":1,"title":"title"}]},"stat":"ok"}`)

	page, err := ParsePage(body)

	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1986, page.TotalPages)
	assert.Equal(t, []domain.Image{{URL: "http://farm1.static.flickr.com/server/id_secret.jpg"}}, page.Items)
	assert.True(t, page.HasMore())
}

func TestParsePage_EmptyResult(t *testing.T) {
	page, err := ParsePage([]byte(`{"photos":{"page":1,"pages":0,"photo":[]},"stat":"ok"}`))

	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore())
}

func TestParsePage_KeepsOrder(t *testing.T) {
	body := []byte(`{"photos":{"page":2,"pages":3,"photo":[` +
		`{"id":"1","secret":"a","server":"s1","farm":5},` +
		`{"id":"2","secret":"b","server":"s2","farm":6}]},"stat":"ok"}`)

	page, err := ParsePage(body)

	require.NoError(t, err)
	assert.Equal(t, []domain.Image{
		{URL: "http://farm5.static.flickr.com/s1/1_a.jpg"},
		{URL: "http://farm6.static.flickr.com/s2/2_b.jpg"},
	}, page.Items)
}

func TestParsePage_FieldOrderWithinPhoto(t *testing.T) {
	body := []byte(`{"stat":"ok","photos":{"photo":[` +
		`{"secret":"x","farm":7,"title":"t","id":"42","server":"9"},` +
		`{"farm":8,"server":"10","secret":"y","id":"43"}],"pages":2,"page":1}}`)

	page, err := ParsePage(body)

	require.NoError(t, err)
	assert.Equal(t, []domain.Image{
		{URL: "http://farm7.static.flickr.com/9/42_x.jpg"},
		{URL: "http://farm8.static.flickr.com/10/43_y.jpg"},
	}, page.Items)
}

func TestParsePage_StatFail(t *testing.T) {
	page, err := ParsePage([]byte(`{"stat":"fail","code":100,"message":"Invalid API Key (Key has invalid format)"}`))

	require.Error(t, err)
	assert.Empty(t, page.Items)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 100, apiErr.Code)
	assert.Equal(t, "Invalid API Key (Key has invalid format)", apiErr.Message)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestParsePage_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"truncated", `{"photos":{"page":1`},
		{"no photos", `{"stat":"ok"}`},
		{"photos not an object", `{"photos":[]}`},
		{"missing pages", `{"photos":{"page":1,"photo":[]}}`},
		{"photo not an array", `{"photos":{"page":1,"pages":1,"photo":{}}}`},
		{"incomplete photo", `{"photos":{"page":1,"pages":1,"photo":[{"id":"1","server":"s","farm":1}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePage([]byte(tt.body))

			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `json:"name"  validate:"required,max=5"`
	Count int    `json:"count" validate:"gte=0"`
}

func decode(body string) (sampleRequest, error) {
	var v sampleRequest
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := DecodeJSON(httptest.NewRecorder(), req, &v)
	return v, err
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	v, err := decode(`{"name":"inbox","count":2}`)
	require.NoError(t, err)
	assert.Equal(t, sampleRequest{Name: "inbox", Count: 2}, v)

	_, err = decode("")
	assert.ErrorIs(t, err, ErrEmptyBody)

	_, err = decode(`{"name":`)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyBody)

	_, err = decode(`{"name":"a"}{"name":"b"}`)
	assert.ErrorContains(t, err, "unexpected data")
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	t.Parallel()

	body := `{"name":"` + strings.Repeat("x", MaxRequestBodyBytes) + `"}`
	_, err := decode(body)
	assert.Error(t, err)
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(&sampleRequest{Name: "ok"}))
	assert.Error(t, ValidateRequest(&sampleRequest{}))
	assert.Error(t, ValidateRequest(&sampleRequest{Name: "too long"}))
	assert.Error(t, ValidateRequest(&sampleRequest{Name: "ok", Count: -1}))
}

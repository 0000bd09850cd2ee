package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindSetPrice(t *testing.T, body string) (setPriceRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("PUT", "/stock/price", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req setPriceRequest
	err := c.ShouldBindJSON(&req)
	return req, err
}

func TestSetPriceBindingAcceptsZeroPrice(t *testing.T) {
	req, err := bindSetPrice(t, `{"variant_id":1,"location_id":2,"price_cents":0}`)
	require.NoError(t, err)
	assert.Equal(t, int64(0), req.PriceCents)
}

func TestSetPriceBindingRejectsNegativePrice(t *testing.T) {
	_, err := bindSetPrice(t, `{"variant_id":1,"location_id":2,"price_cents":-5}`)
	assert.Error(t, err)
}

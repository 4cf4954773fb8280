package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/checkout-pricing/internal/checkout"
	"github.com/noah-isme/checkout-pricing/internal/cli"
)

const cartYAML = `customerType: standard
shippingMethod: standard
shippingAddress:
  street: 123 Jolly Lane
  city: Dallas
  country: USA
items:
  - quantity: 2
    unitPrice: 10
  - quantity: 3
    unitPrice: 20
`

func writeCart(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"REDIS_URL", "PREMIUM_DISCOUNT", "WAREHOUSE_STREET", "WAREHOUSE_CITY", "WAREHOUSE_COUNTRY", "OBS_ENABLE_TRACING", "OBS_METRICS_TEXTFILE", "QUOTE_CACHE_TTL"} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestQuoteJSON(t *testing.T) {
	isolateEnv(t)
	textfile := filepath.Join(t.TempDir(), "pricing.prom")
	t.Setenv("OBS_METRICS_TEXTFILE", textfile)

	out, _, err := run(t, "quote", "--cart", writeCart(t, cartYAML))
	require.NoError(t, err)

	var q checkout.Quote
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	require.Equal(t, "85", q.Totals.Total.String())
	require.Equal(t, "same_city", q.Tier)

	metrics, err := os.ReadFile(textfile)
	require.NoError(t, err)
	require.Contains(t, string(metrics), "pricing_quotes_total")
}

func TestQuoteTextWithWarehouseOverride(t *testing.T) {
	isolateEnv(t)
	t.Setenv("WAREHOUSE_CITY", "Austin")

	out, _, err := run(t, "quote", "--cart", writeCart(t, cartYAML), "-o", "text")
	require.NoError(t, err)
	require.Contains(t, out, "same_country")
	require.Contains(t, out, "90.00")
}

func TestQuoteUsesRedisCache(t *testing.T) {
	isolateEnv(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	t.Setenv("REDIS_URL", "redis://"+mr.Addr())

	path := writeCart(t, cartYAML)
	_, _, err = run(t, "quote", "--cart", path)
	require.NoError(t, err)
	out, _, err := run(t, "quote", "--cart", path)
	require.NoError(t, err)

	var q checkout.Quote
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	require.True(t, q.Cached)
}

func TestQuoteRejectsInvalidAddress(t *testing.T) {
	isolateEnv(t)
	body := `shippingAddress:
  street: 123 Jolly Lane
items:
  - quantity: 1
    unitPrice: 1
`
	_, _, err := run(t, "quote", "--cart", writeCart(t, body))
	require.ErrorIs(t, err, checkout.ErrInvalidAddress)
	require.Contains(t, err.Error(), "city")
}

func TestQuoteRejectsUnknownOutput(t *testing.T) {
	isolateEnv(t)
	_, _, err := run(t, "quote", "--cart", writeCart(t, cartYAML), "-o", "xml")
	require.Error(t, err)
}

func TestValidateAddress(t *testing.T) {
	out, _, err := run(t, "validate-address", "--street", "1 Main", "--city", "Dallas", "--country", "USA")
	require.NoError(t, err)
	require.Contains(t, out, "valid")

	out, _, err = run(t, "validate-address", "--street", "1 Main", "-o", "json")
	require.ErrorIs(t, err, cli.ErrInvalidAddress)
	var verdict struct {
		Valid   bool     `json:"valid"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &verdict))
	require.False(t, verdict.Valid)
	require.ElementsMatch(t, []string{"city", "country"}, verdict.Missing)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "pricing-quote")
}

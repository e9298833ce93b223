package chainreq

import (
	"math/big"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/Mohsinsiddi/w3gate/internal/network"
)

// UnknownTicker is the ticker recorded when a request names no native currency.
const UnknownTicker = "UNKNOWN"

const maxChainNameLength = 100

var allowedKeys = []string{
	"chainId",
	"chainName",
	"blockExplorerUrls",
	"iconUrls",
	"rpcUrls",
	"nativeCurrency",
}

// Lookup finds the current registry entry for a chain id.
type Lookup interface {
	FindByChainID(chainID string) *network.Configuration
}

// Request is a validated wallet_addEthereumChain request.
type Request struct {
	ChainID          string // canonical 0x-prefixed hex
	ChainIDInt       *big.Int
	ChainName        string
	Ticker           string
	RPCURL           string
	BlockExplorerURL string
	IconURLs         []string
}

// Validate checks raw wallet_addEthereumChain params. Rules run in a fixed
// order and the first failure is returned as an *InvalidParamsError. lookup may
// be nil, in which case the registry ticker check is skipped.
func Validate(params []interface{}, lookup Lookup) (*Request, error) {
	if len(params) != 1 {
		return nil, invalid(ReasonNotSingleObject, params)
	}
	obj, ok := params[0].(map[string]interface{})
	if !ok || obj == nil {
		return nil, invalid(ReasonNotSingleObject, params)
	}

	var extra []string
	for k := range obj {
		if !slices.Contains(allowedKeys, k) {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		slices.Sort(extra)
		return nil, invalid(ReasonUnexpectedKeys, extra)
	}

	rpcURL, ok := firstQualifyingURL(obj["rpcUrls"])
	if !ok {
		return nil, invalid(ReasonNoValidRPCURLs, obj["rpcUrls"])
	}

	var explorerURL string
	if raw, present := obj["blockExplorerUrls"]; present && raw != nil {
		explorerURL, ok = firstQualifyingURL(raw)
		if !ok {
			return nil, invalid(ReasonNoValidExplorerURLs, raw)
		}
	}

	chainID, chainIDInt, err := ParseChainID(obj["chainId"])
	if err != nil {
		return nil, err
	}

	chainName := chainID
	if raw, present := obj["chainName"]; present && raw != nil {
		name, ok := raw.(string)
		if !ok || name == "" {
			return nil, invalid(ReasonInvalidChainName, raw)
		}
		chainName = truncate(name, maxChainNameLength)
	}

	ticker := UnknownTicker
	if raw, present := obj["nativeCurrency"]; present && raw != nil {
		currency, ok := raw.(map[string]interface{})
		if !ok {
			return nil, invalid(ReasonInvalidNativeCurrency, raw)
		}
		if !isEighteen(currency["decimals"]) {
			return nil, invalid(ReasonInvalidDecimals, currency["decimals"])
		}
		symbol, ok := currency["symbol"].(string)
		if !ok || symbol == "" {
			return nil, invalid(ReasonInvalidSymbol, currency["symbol"])
		}
		ticker = symbol
	}

	if ticker != UnknownTicker {
		if n := utf16Len(ticker); n < 2 || n > 6 {
			return nil, invalid(ReasonInvalidTickerLength, ticker)
		}
	}

	if lookup != nil {
		if existing := lookup.FindByChainID(chainID); existing != nil && existing.Ticker != ticker {
			return nil, invalid(ReasonTickerMismatch, ticker)
		}
	}

	return &Request{
		ChainID:          chainID,
		ChainIDInt:       chainIDInt,
		ChainName:        chainName,
		Ticker:           ticker,
		RPCURL:           rpcURL,
		BlockExplorerURL: explorerURL,
		IconURLs:         stringsOf(obj["iconUrls"]),
	}, nil
}

// IsLocalhostOrHTTPS reports whether raw is an https URL, or an http(s) URL
// whose host is localhost or 127.0.0.1.
func IsLocalhostOrHTTPS(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	switch u.Scheme {
	case "https":
		return true
	case "http":
		host := strings.ToLower(u.Hostname())
		return host == "localhost" || host == "127.0.0.1"
	}
	return false
}

// firstQualifyingURL returns the first entry of an array value that passes
// IsLocalhostOrHTTPS. Order is preserved; no entry is preferred over another.
func firstQualifyingURL(v interface{}) (string, bool) {
	for _, s := range stringsOf(v) {
		if IsLocalhostOrHTTPS(s) {
			return s, true
		}
	}
	return "", false
}

// stringsOf returns the string elements of an array value.
func stringsOf(v interface{}) []string {
	var out []string
	switch list := v.(type) {
	case []interface{}:
		for _, e := range list {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, list...)
	}
	return out
}

// isEighteen reports whether v is the number 18. Decoded JSON yields float64;
// Go callers may pass any integer kind.
func isEighteen(v interface{}) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 18
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 18
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 18
	}
	return false
}

// utf16Len is the length of s in UTF-16 code units, as browsers measure it.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// truncate keeps at most n UTF-16 code units of s without splitting a
// surrogate pair.
func truncate(s string, n int) string {
	units := 0
	for i, r := range s {
		units += utf16.RuneLen(r)
		if units > n {
			return s[:i]
		}
	}
	return s
}

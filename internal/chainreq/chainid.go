package chainreq

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/Mohsinsiddi/w3gate/internal/quantity"
)

var chainIDPattern = regexp.MustCompile(`^0x[1-9a-f][0-9a-f]*$`)

// ParseChainID validates a raw chainId value and returns its canonical hex
// form and integer value. Upper-case hex digits are folded to lower case
// before matching.
func ParseChainID(v interface{}) (string, *big.Int, error) {
	s, ok := v.(string)
	if !ok {
		return "", nil, invalid(ReasonInvalidChainID, v)
	}
	s = strings.ToLower(s)
	if !chainIDPattern.MatchString(s) {
		return "", nil, invalid(ReasonInvalidChainID, v)
	}
	n, err := quantity.Parse(s)
	if err != nil {
		return "", nil, invalid(ReasonInvalidChainID, v)
	}
	if !quantity.IsSafeInteger(n) {
		return "", nil, invalid(ReasonChainIDTooLarge, v)
	}
	return s, n, nil
}

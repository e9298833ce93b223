package chainreq

import (
	"errors"
)

// ErrInvalidParams matches every validation failure via errors.Is.
var ErrInvalidParams = errors.New("invalid params")

// Validation failure reasons. The text is part of the RPC contract.
const (
	ReasonNotSingleObject       = "expected single, object parameter"
	ReasonUnexpectedKeys        = "received unexpected keys on object parameter"
	ReasonNoValidRPCURLs        = "no valid rpcUrls"
	ReasonNoValidExplorerURLs   = "no valid blockExplorerUrls"
	ReasonInvalidChainID        = "expected 0x-prefixed, unpadded, non-zero hexadecimal string chainId"
	ReasonChainIDTooLarge       = "chainId exceeds max safe integer"
	ReasonInvalidChainName      = "expected non-empty string chainName"
	ReasonInvalidNativeCurrency = "expected null or object nativeCurrency"
	ReasonInvalidDecimals       = "expected the number 18 for nativeCurrency.decimals"
	ReasonInvalidSymbol         = "expected non-empty string nativeCurrency.symbol"
	ReasonInvalidTickerLength   = "expected 2-6 character string nativeCurrency.symbol"
	ReasonTickerMismatch        = "nativeCurrency.symbol does not match an existing network with the same chainId"
)

// InvalidParamsError is a rejected chain request.
type InvalidParamsError struct {
	Reason   string
	Received interface{}
}

func (e *InvalidParamsError) Error() string {
	return e.Reason
}

// Is makes errors.Is(err, ErrInvalidParams) true.
func (e *InvalidParamsError) Is(target error) bool {
	return target == ErrInvalidParams
}

func invalid(reason string, received interface{}) error {
	return &InvalidParamsError{Reason: reason, Received: received}
}

package connector

import (
	"errors"

	"github.com/Mohsinsiddi/w3gate/internal/approval"
	"github.com/Mohsinsiddi/w3gate/internal/chainreq"
)

// errors
var (
	ErrMethodNotFound    = errors.New("method not found")
	ErrUnrecognizedChain = errors.New("unrecognized chain id")
)

// EIP-1193 / JSON-RPC error codes.
const (
	CodeInvalidParams     = -32602
	CodeMethodNotFound    = -32601
	CodeInternal          = -32603
	CodeUserRejected      = 4001
	CodeUnrecognizedChain = 4902

	userRejectedMessage  = "User rejected the request."
	internalErrorMessage = "Internal JSON-RPC error."
)

// RPCError is an error as it leaves the wallet. It satisfies go-ethereum's
// rpc.Error and rpc.DataError so the JSON-RPC server encodes it verbatim.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// ErrorCode returns the JSON-RPC error code.
func (e *RPCError) ErrorCode() int {
	return e.Code
}

// ErrorData returns the optional data member.
func (e *RPCError) ErrorData() interface{} {
	return e.Data
}

// ToRPCError maps err onto the wallet's JSON-RPC error codes. nil maps to nil.
func ToRPCError(err error) *RPCError {
	if err == nil {
		return nil
	}

	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var invalid *chainreq.InvalidParamsError
	switch {
	case errors.As(err, &invalid):
		return &RPCError{Code: CodeInvalidParams, Message: invalid.Reason, Data: invalid.Received}
	case errors.Is(err, approval.ErrUserRejected):
		return &RPCError{Code: CodeUserRejected, Message: userRejectedMessage}
	case errors.Is(err, ErrUnrecognizedChain):
		return &RPCError{Code: CodeUnrecognizedChain, Message: err.Error()}
	case errors.Is(err, ErrMethodNotFound):
		return &RPCError{Code: CodeMethodNotFound, Message: err.Error()}
	default:
		return &RPCError{Code: CodeInternal, Message: internalErrorMessage, Data: err.Error()}
	}
}

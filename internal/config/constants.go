package config

import "time"

// GasLimitETHTransfer is the gas a plain value transfer to an account without
// code consumes. Used verbatim for simple sends; no buffer is added.
const GasLimitETHTransfer = uint64(21_000)

// Timeout constants used across cmd and server packages.
const (
	ProbeTimeout      = 10 * time.Second // network probe round-trips
	ShutdownTimeout   = 5 * time.Second  // graceful HTTP shutdown in serve
	ReadHeaderTimeout = 10 * time.Second // serve: slowloris guard
)

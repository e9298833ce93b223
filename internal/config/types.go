package config

// Config holds all w3gate configuration.
type Config struct {
	DefaultChainID string   `json:"default_chain_id" mapstructure:"default_chain_id" validate:"required,startswith=0x"`
	LogLevel       string   `json:"log_level"        mapstructure:"log_level"        validate:"oneof=debug info warn error"`
	LogFormat      string   `json:"log_format"       mapstructure:"log_format"       validate:"oneof=console json"`
	ApprovalMode   string   `json:"approval_mode"    mapstructure:"approval_mode"    validate:"oneof=ask always never"` // "ask" | "always" | "never"
	RPCTimeout     int      `json:"rpc_timeout"      mapstructure:"rpc_timeout"      validate:"min=1,max=300"`          // seconds
	ServeAddr      string   `json:"serve_addr"       mapstructure:"serve_addr"       validate:"required"`
	CORSOrigins    []string `json:"cors_origins"     mapstructure:"cors_origins"     validate:"dive,required"`

	// internal: config dir path used for Save()
	configDir string
}

// Approval modes.
const (
	ApprovalAsk    = "ask"
	ApprovalAlways = "always"
	ApprovalNever  = "never"
)

package models

// Batch identity
const (
	SchemaVersion   = 1
	ToolName        = "money-backward"
	ToolVersion     = "0.1.0"
	ToolID          = ToolName + "@" + ToolVersion
	DefaultCurrency = "JPY"
	DateLayout      = "2006-01-02"
)

// File permissions
const (
	PermissionOutputFile = 0644
	PermissionDirectory  = 0750
)

package config

// Layout constants
const (
	// Table dimensions
	DefaultColumnNameWidth = 40
	DefaultColumnTypeWidth = 10
	DefaultColumnSizeWidth = 12
	DefaultTableHeight     = 20
	MinColumnNameWidth     = 16

	// Rows reserved above and below the table (header, status, footer)
	ReservedRows = 9

	// File display
	FileNameTruncateLength = 60

	// Dialog dimensions
	DialogDefaultWidth = 50
	DialogLargeWidth   = 70
	FileCardWidth      = 72

	// Spacing
	DefaultMarginSize = 1
)

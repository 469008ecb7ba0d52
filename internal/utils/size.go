package utils

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatSize formats a byte count for display, e.g. 1536 -> "1.5 KB".
// The value is rounded to two decimals and trailing zeros are dropped.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	const unit = 1024
	exp := 0
	div := int64(1)
	for bytes/div >= unit && exp < len(sizeUnits)-1 {
		div *= unit
		exp++
	}

	value := float64(bytes) / float64(div)
	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[exp]
}

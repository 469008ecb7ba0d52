package theme

// Terminal-compatible color constants using ANSI standard colors
const (
	ColorWhite        = "#FFFFFF" // ANSI 15 - primary text
	ColorBrightBlack  = "#808080" // ANSI 8 - secondary text
	ColorBrightBlue   = "#5C7CFA" // ANSI 12 - primary accent
	ColorBrightCyan   = "#22B8CF" // ANSI 14 - secondary accent
	ColorBrightGreen  = "#51CF66" // ANSI 10 - success/links
	ColorBrightYellow = "#FFD43B" // ANSI 11 - warning
	ColorBrightRed    = "#FF6B6B" // ANSI 9 - error
	ColorSelection    = "#4A90E2"
	ColorDim          = "#666666"

	// Entry colors per category
	ColorFolder       = "#FCC419"
	ColorFileImage    = "#74C0FC"
	ColorFileDocument = "#51CF66"
	ColorFileArchive  = "#FFA94D"
	ColorFileVideo    = "#FF8787"
	ColorFileAudio    = "#DA77F2"
	ColorFileText     = "#66D9E8"
)

// Message kinds, in the same order as messaging.MessageType
const (
	MessageInfo = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// GetFileColor returns the color for an entry category
func GetFileColor(category string) string {
	switch category {
	case "folder":
		return ColorFolder
	case "image":
		return ColorFileImage
	case "document":
		return ColorFileDocument
	case "archive":
		return ColorFileArchive
	case "video":
		return ColorFileVideo
	case "audio":
		return ColorFileAudio
	case "text":
		return ColorFileText
	default:
		return ColorWhite
	}
}

// GetMessageColor returns the color for a given message type
func GetMessageColor(messageType int) string {
	switch messageType {
	case MessageError:
		return ColorBrightRed
	case MessageSuccess:
		return ColorBrightGreen
	case MessageWarning:
		return ColorBrightYellow
	default:
		return ColorBrightCyan
	}
}

// GetMessageIcon returns the icon for a given message type
func GetMessageIcon(messageType int) string {
	switch messageType {
	case MessageError:
		return "❌"
	case MessageSuccess:
		return "✅"
	case MessageWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

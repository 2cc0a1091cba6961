package config

const (
	// MaxDocumentBytes caps a single drive download. Word documents beyond
	// this size are rejected rather than buffered in memory.
	MaxDocumentBytes = 50 << 20

	// MaxInstructionLength is the maximum length, in runes, of an edit
	// instruction or chat message.
	MaxInstructionLength = 4000

	// MaxDocumentTextLength is the largest document text sent to the model.
	// Matches the character limit used by the text content checks.
	MaxDocumentTextLength = 100000

	// MaxLogFiles is how many timestamped log files are kept in LOG_DIR.
	MaxLogFiles = 10
)

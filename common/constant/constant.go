package constant

const (
	// Alignment is the default byte boundary every metadata block and body
	// buffer is padded to. Readers rely on it for zero-copy buffer access.
	Alignment = 8

	// PrefixSize is the width of the little-endian length prefix that starts
	// every message and the file trailer.
	PrefixSize = 4

	// MagicMarker is written as the final bytes of a file-mode sink, directly
	// after the footer length prefix.
	MagicMarker = "AIP1"

	// TrailerSize is the total size of the fixed trailer: footer length
	// prefix plus magic marker.
	TrailerSize = PrefixSize + len(MagicMarker)

	EndpointOverride = "endpoint_override"
)

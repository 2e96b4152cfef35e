package config

const (
	// System is the key to use to prefix system log messages
	System = "[system]"
	// Compress is the key to use to prefix compression log messages
	Compress = "[compress]"
	// Decompress is the key to use to prefix decompression log messages
	Decompress = "[decompress]"
)

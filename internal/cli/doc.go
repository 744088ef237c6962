// Package cli implements the interactive cdnkeeper shell.
//
// The shell lists the files offered by the configured source, downloads and
// decrypts them, and either saves the plaintext to the download directory or
// publishes it on a local HTTP endpoint a media player can open:
//
//	list [name|size|date] [desc] [category]   list remote files
//	find <text>                               search file names
//	info <name>                               show one file
//	get <name>                                decrypt and save to disk
//	play <name>                               decrypt and serve for playback
//	stop                                      revoke the playback URL
//	help, exit | quit
//
// When no content key is configured it is asked for, without echo, the first
// time a file is decrypted.
package cli

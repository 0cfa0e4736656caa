// Package ytdlp wraps the yt-dlp command-line downloader: fetching a video
// by URL with post-hoc extension discovery, and self-updating the binary
// from the upstream release channel.
package ytdlp

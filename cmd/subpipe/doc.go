// Command subpipe takes a video, generates subtitles with whisper, and
// translates them with the chatgpt-subtitle-translator CLI. The exit code
// identifies the stage that failed so wrapper scripts can react.
package main

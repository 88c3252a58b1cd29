// Package watch re-runs an action when a configuration file changes on disk.
//
// The parent directory is watched rather than the file itself so editors
// that save by renaming a temporary file are still noticed. Bursts of
// events are collapsed by a debounce delay, and content cfgsync wrote
// itself (see Watcher.MarkWritten) does not trigger the action again.
package watch

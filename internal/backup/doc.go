// Package backup keeps snapshots of configuration files before cfgsync
// rewrites them.
//
// Each snapshot is a copy of one file plus a manifest recording its source
// path, permissions and SHA256 checksum:
//
//	~/.local/state/cfgsync/backups/
//	└── {key}/                 # derived from the file's absolute path
//	    └── {id}/              # creation time, e.g. 20260123T100712.123
//	        ├── manifest.json
//	        └── config.yml
//
// [Manager.EnsureBackedUp] takes at most one snapshot per file per
// Manager, and none when the file is unchanged since its latest snapshot.
// Older snapshots beyond the retention count are pruned after each backup.
//
// [Manager.Restore] verifies the checksum before writing the file back and
// returns [ErrBackupCorrupted] on mismatch.
package backup

package backup

import (
	"io/fs"
	"time"

	"github.com/thoreinstein/cfgsync/internal/errors"
)

// ManifestVersion is the manifest format version.
const ManifestVersion = 1

// DefaultRetentionCount is the number of snapshots kept per file.
const DefaultRetentionCount = 5

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no snapshots exist for the file.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates the snapshot no longer matches its checksum.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Manifest describes one snapshot. It is stored as manifest.json.
type Manifest struct {
	// Version is the manifest format version.
	Version int `json:"version"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`

	// Source is the absolute path of the snapshotted file.
	Source string `json:"source"`

	// File is the name of the copy inside the snapshot directory.
	File string `json:"file"`

	// SHA256Hash is the hex-encoded checksum of the copy.
	SHA256Hash string `json:"sha256_hash"`

	// Mode is the source file's permission bits.
	Mode fs.FileMode `json:"mode"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// ToolVersion is the cfgsync version that took the snapshot.
	ToolVersion string `json:"tool_version"`

	// ID names the snapshot directory. It is not stored in JSON.
	ID string `json:"-"`
}

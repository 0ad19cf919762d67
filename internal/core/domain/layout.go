package domain

import "path/filepath"

const (
	// PaktDirName is the name of the internal project metadata directory.
	PaktDirName = ".pakt"

	// PackagesDirName is the name of the installed-distribution directory.
	PackagesDirName = "packages"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// ArtifactsDirName is the name of the artifact cache directory.
	ArtifactsDirName = "artifacts"

	// ManifestFileName is the name of the project manifest file.
	ManifestFileName = "pakt.yaml"

	// LockFileName is the name of the lock file.
	LockFileName = "pakt.lock"

	// TxnLockFileName is the name of the advisory transaction lock file.
	TxnLockFileName = "txn.lock"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// ManifestPath returns the manifest file path for the given project root.
func ManifestPath(root string) string {
	return filepath.Join(root, ManifestFileName)
}

// LockPath returns the lock file path for the given project root.
func LockPath(root string) string {
	return filepath.Join(root, LockFileName)
}

// PackagesPath returns the installed-distribution directory for the given
// project root.
func PackagesPath(root string) string {
	return filepath.Join(root, PaktDirName, PackagesDirName)
}

// ArtifactCachePath returns the artifact cache directory for the given
// project root.
func ArtifactCachePath(root string) string {
	return filepath.Join(root, PaktDirName, CacheDirName, ArtifactsDirName)
}

// TxnLockPath returns the advisory transaction lock path for the given
// project root.
func TxnLockPath(root string) string {
	return filepath.Join(root, PaktDirName, TxnLockFileName)
}

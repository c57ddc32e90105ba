package core

import (
	"context"
	"fmt"
	"os"

	"rostercore/internal/blob"
	blobfs "rostercore/internal/infra/blob/fs"
	blobmemory "rostercore/internal/infra/blob/memory"
	blobs3 "rostercore/internal/infra/blob/s3"
	"rostercore/internal/infra/persistence/memory"
	"rostercore/internal/infra/persistence/postgres"
	"rostercore/internal/infra/persistence/sqlite"
	"rostercore/pkg/domain"
)

// StorageDriver identifies a concrete profile storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenProfileStore selects a profile store backend using environment
// variables. Defaults to sqlite when unset.
//
//	ROSTERCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	ROSTERCORE_SQLITE_PATH: path to sqlite file (default ./rostercore.db)
//	ROSTERCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenProfileStore() (domain.ProfileStore, error) {
	driver := os.Getenv("ROSTERCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("ROSTERCORE_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("ROSTERCORE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// OpenExportSink selects a blob store for roster exports using environment
// variables. Defaults to the filesystem driver when unset.
//
//	ROSTERCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	ROSTERCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./exportdata)
//	(S3 specific variables documented in the s3 package)
func OpenExportSink(ctx context.Context) (blob.Store, error) {
	driver := os.Getenv("ROSTERCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(blob.DriverFilesystem)
	}
	switch blob.Driver(driver) {
	case blob.DriverFilesystem:
		return blobfs.New(os.Getenv("ROSTERCORE_BLOB_FS_ROOT"))
	case blob.DriverS3:
		return blobs3.OpenFromEnv(ctx)
	case blob.DriverMemory:
		return blobmemory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}

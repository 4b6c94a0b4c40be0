// Package blobstore provides the storage abstraction for persisted sketches.
//
// BlobStore reads and writes immutable blobs: sketch data (<name>.wnx),
// manifests (<name>.manifest) and the CURRENT pointer naming the most
// recently published manifest. Implementations must be safe for concurrent
// use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped reads, atomic writes
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - s3.CommitStore: S3 plus DynamoDB conditional writes for CURRENT
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore

// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "refs/")
//
//	err = sketch.Save(ctx, store, "hg38")
//
// CommitStore layers DynamoDB conditional writes over a Store so that
// publishing CURRENT is safe with concurrent builders.
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large sketches
//   - CRC32C checksums on upload
//   - Automatic pagination for listing
package s3

package s3

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/winnow/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCommitStore(ddb *mockDDBClient, baseURI string) (*CommitStore, *MockS3Client) {
	client := new(MockS3Client)
	return NewCommitStore(NewStore(client, "test-bucket", "test/"), ddb, "winnow-commits", baseURI), client
}

func readCurrent(t *testing.T, store blobstore.BlobStore) string {
	t.Helper()
	data, err := blobstore.Get(context.Background(), store, CurrentName)
	require.NoError(t, err)
	return string(data)
}

func TestCommitStore_FirstCommit(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	require.NoError(t, store.Put(ctx, CurrentName, []byte("hg38.manifest")))
	assert.Equal(t, "hg38.manifest", readCurrent(t, store))

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

func TestCommitStore_MultipleCommits(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	for i := 1; i <= 12; i++ {
		require.NoError(t, store.Put(ctx, CurrentName, []byte(fmt.Sprintf("build-%02d.manifest", i))))
	}

	assert.Equal(t, "build-12.manifest", readCurrent(t, store))
}

func TestCommitStore_ConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	require.NoError(t, store.Put(ctx, CurrentName, []byte("a.manifest")))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			err := store.Put(ctx, CurrentName, []byte(fmt.Sprintf("w%d.manifest", id)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConcurrentModification):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()
	assert.Greater(t, successes, 0)

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1+successes), v)
}

func TestCommitStore_NotFoundBeforeCommit(t *testing.T) {
	store, _ := newTestCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	_, err := store.Open(context.Background(), CurrentName)
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestCommitStore_IsolatedNamespaces(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()

	store1, _ := newTestCommitStore(ddb, "s3://bucket-a/path/")
	store2, _ := newTestCommitStore(ddb, "s3://bucket-b/path/")

	require.NoError(t, store1.Put(ctx, CurrentName, []byte("A.manifest")))
	require.NoError(t, store2.Put(ctx, CurrentName, []byte("B.manifest")))

	assert.Equal(t, "A.manifest", readCurrent(t, store1))
	assert.Equal(t, "B.manifest", readCurrent(t, store2))
}

func TestCommitStore_OtherBlobsGoToS3(t *testing.T) {
	ctx := context.Background()
	store, client := newTestCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		return *input.Key == "test/hg38.manifest"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	require.NoError(t, store.Put(ctx, "hg38.manifest", []byte("{}")))
	client.AssertExpectations(t)
}

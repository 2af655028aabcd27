package service

import (
	"blueclova/share-api/db"
	"blueclova/share-api/internal/viewer"
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var passwordFormat = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func TestShare(t *testing.T) {
	ctx := context.Background()
	links := viewer.New("https://blueclova.com")
	in := UploadInput{Name: "clip.mp4", Size: 1024, MimeType: "video/mp4"}

	t.Run("success saves record and links it", func(t *testing.T) {
		pipeline := new(MockPipeline)
		store := new(MockRecordStore)
		s := NewShare(pipeline, store, links)

		pipeline.On("Upload", ctx, mock.Anything, in, mock.Anything).Return("vid123", nil)
		store.On("SaveRecord", ctx, "vid123", mock.MatchedBy(func(p string) bool {
			return passwordFormat.MatchString(p)
		})).Return("doc456", nil)

		res, err := s.Do(ctx, in, nil)
		require.NoError(t, err)

		assert.Equal(t, "vid123", res.VideoID)
		assert.Equal(t, "doc456", res.RecordID)
		assert.Equal(t, "https://blueclova.com/view/doc456", res.ViewerURL)
		assert.Regexp(t, passwordFormat, res.Password)
		assert.False(t, res.Degraded)
		assert.Empty(t, res.Warning)

		store.AssertExpectations(t)
	})

	t.Run("record store failure degrades instead of failing", func(t *testing.T) {
		pipeline := new(MockPipeline)
		store := new(MockRecordStore)
		s := NewShare(pipeline, store, links)

		pipeline.On("Upload", ctx, mock.Anything, in, mock.Anything).Return("vid123", nil)
		store.On("SaveRecord", ctx, "vid123", mock.Anything).
			Return("", &db.PersistenceError{Err: errors.New("store unavailable")})

		res, err := s.Do(ctx, in, nil)
		require.NoError(t, err)

		assert.Equal(t, "vid123", res.VideoID)
		assert.Regexp(t, passwordFormat, res.Password)
		assert.Empty(t, res.RecordID)
		assert.True(t, res.Degraded)
		assert.NotEmpty(t, res.Warning)
		assert.Equal(t, "https://blueclova.com/view/vid123", res.ViewerURL)
	})

	t.Run("missing record store degrades too", func(t *testing.T) {
		pipeline := new(MockPipeline)
		s := NewShare(pipeline, nil, links)

		pipeline.On("Upload", ctx, mock.Anything, in, mock.Anything).Return("vid123", nil)

		res, err := s.Do(ctx, in, nil)
		require.NoError(t, err)

		assert.True(t, res.Degraded)
		assert.Equal(t, "https://blueclova.com/view/vid123", res.ViewerURL)
	})

	t.Run("pipeline failure writes no record", func(t *testing.T) {
		pipeline := new(MockPipeline)
		store := new(MockRecordStore)
		s := NewShare(pipeline, store, links)

		pipeline.On("Upload", ctx, mock.Anything, in, mock.Anything).
			Return("", &TransferError{Kind: KindRateLimited, Status: 429})

		_, err := s.Do(ctx, in, nil)

		var tErr *TransferError
		require.ErrorAs(t, err, &tErr)
		store.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything, mock.Anything)
	})
}

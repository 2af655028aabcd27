package service

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPipeline struct {
	mock.Mock
}

func (m *MockPipeline) Upload(ctx context.Context, sess *Session, in UploadInput, onProgress func(int)) (string, error) {
	args := m.Called(ctx, sess, in, onProgress)
	return args.String(0), args.Error(1)
}

type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) SaveRecord(ctx context.Context, videoID, password string) (string, error) {
	args := m.Called(ctx, videoID, password)
	return args.String(0), args.Error(1)
}

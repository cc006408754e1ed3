package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T, interval time.Duration) (*Service, *MockExpirer) {
	ctrl := gomock.NewController(t)
	expirer := NewMockExpirer(ctrl)
	service := New(interval, expirer)
	defer ctrl.Finish()
	return service, expirer
}

func TestNew_DefaultInterval(t *testing.T) {
	service, _ := NewMock(t, 0)
	assert.Equal(t, 10*time.Minute, service.interval)

	service, _ = NewMock(t, time.Minute)
	assert.Equal(t, time.Minute, service.interval)
}

func TestRunOnce(t *testing.T) {
	tests := []struct {
		name        string
		prepareMock func(expirer *MockExpirer)
		expected    int64
	}{
		{
			name: "Reports demoted subscriptions",
			prepareMock: func(expirer *MockExpirer) {
				expirer.EXPECT().ExpireLapsed(gomock.Any()).Return(int64(3), nil)
			},
			expected: 3,
		},
		{
			name: "Swallows expirer errors",
			prepareMock: func(expirer *MockExpirer) {
				expirer.EXPECT().ExpireLapsed(gomock.Any()).Return(int64(0), errors.New("database error"))
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, expirer := NewMock(t, time.Minute)
			tt.prepareMock(expirer)

			assert.Equal(t, tt.expected, service.RunOnce(context.Background()))
		})
	}
}

func TestStart_TicksUntilCancelled(t *testing.T) {
	service, expirer := NewMock(t, 10*time.Millisecond)

	ticked := make(chan struct{}, 1)
	expirer.EXPECT().ExpireLapsed(gomock.Any()).DoAndReturn(
		func(ctx context.Context) (int64, error) {
			select {
			case ticked <- struct{}{}:
			default:
			}
			return 0, nil
		}).MinTimes(1)

	ctx, cancel := context.WithCancel(context.Background())
	service.Start(ctx)

	select {
	case <-ticked:
	case <-time.After(time.Second):
		t.Fatal("sweep never ran")
	}
	cancel()
}

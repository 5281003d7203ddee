package mocks

import (
	"context"

	model "github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockWebsiteAnalyzer is a mock type for the WebsiteAnalyzer interface.
type MockWebsiteAnalyzer struct {
	mock.Mock
}

// Analyze provides a mock function with given fields: ctx, website
func (_m *MockWebsiteAnalyzer) Analyze(ctx context.Context, website string) (*model.WebsiteAnalysis, error) {
	ret := _m.Called(ctx, website)

	if len(ret) == 0 {
		panic("no return value specified for Analyze")
	}

	var r0 *model.WebsiteAnalysis
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.WebsiteAnalysis, error)); ok {
		return rf(ctx, website)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.WebsiteAnalysis)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockWebsiteAnalyzer creates a new instance of MockWebsiteAnalyzer.
func NewMockWebsiteAnalyzer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWebsiteAnalyzer {
	mock := &MockWebsiteAnalyzer{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

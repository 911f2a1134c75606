package bizlist

import (
	"context"

	domlisting "github.com/kailas-cloud/bizlist/internal/domain/listing"
	healthuc "github.com/kailas-cloud/bizlist/internal/usecase/health"
	listinguc "github.com/kailas-cloud/bizlist/internal/usecase/listing"
)

// --- listingUseCase mock ---

type mockListingUC struct {
	listFn func(ctx context.Context, q listinguc.Query) ([]domlisting.Row, error)
}

func (m *mockListingUC) List(ctx context.Context, q listinguc.Query) ([]domlisting.Row, error) {
	return m.listFn(ctx, q)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- helpers ---

func testClient(listSvc listingUseCase) *Client {
	return &Client{listSvc: listSvc}
}

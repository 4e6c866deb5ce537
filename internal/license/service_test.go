// AngelaMos | 2026
// service_test.go

package license

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/config"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
)

type fakeRepo struct {
	licenses map[string]*License // keyed by user id
	renewals map[string]*Renewal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		licenses: make(map[string]*License),
		renewals: make(map[string]*Renewal),
	}
}

func (r *fakeRepo) Create(_ context.Context, lic *License) error {
	if _, ok := r.licenses[lic.UserID]; ok {
		return core.ErrDuplicateKey
	}
	cp := *lic
	r.licenses[lic.UserID] = &cp
	return nil
}

func (r *fakeRepo) GetByUserID(_ context.Context, userID string) (*License, error) {
	lic, ok := r.licenses[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *lic
	return &cp, nil
}

func (r *fakeRepo) Update(_ context.Context, lic *License) error {
	for userID, existing := range r.licenses {
		if existing.ID == lic.ID {
			cp := *lic
			r.licenses[userID] = &cp
			return nil
		}
	}
	return core.ErrNotFound
}

func (r *fakeRepo) CreateRenewal(_ context.Context, renewal *Renewal) error {
	renewal.RequestedAt = time.Now()
	cp := *renewal
	r.renewals[renewal.ID] = &cp
	return nil
}

func (r *fakeRepo) GetRenewalByID(_ context.Context, id string) (*Renewal, error) {
	renewal, ok := r.renewals[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *renewal
	return &cp, nil
}

func (r *fakeRepo) ListRenewalsForUser(_ context.Context, userID string) ([]Renewal, error) {
	var out []Renewal
	for _, renewal := range r.renewals {
		if renewal.UserID == userID {
			out = append(out, *renewal)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListRenewalsByStatus(_ context.Context, status string) ([]Renewal, error) {
	var out []Renewal
	for _, renewal := range r.renewals {
		if renewal.Status == status {
			out = append(out, *renewal)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateRenewal(_ context.Context, renewal *Renewal) error {
	if _, ok := r.renewals[renewal.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *renewal
	r.renewals[renewal.ID] = &cp
	return nil
}

func testConfig() config.LicenseConfig {
	return config.LicenseConfig{
		TrialDays: 7,
		TrialPlan: "basic",
		PlanProductLimits: map[string]int{
			"basic":    15,
			"advanced": 100,
			"pro":      0,
		},
	}
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, testConfig(), logger), repo
}

func TestStartTrial(t *testing.T) {
	svc, repo := newTestService()

	require.NoError(t, svc.StartTrial(context.Background(), "u1"))

	lic := repo.licenses["u1"]
	require.NotNil(t, lic)
	assert.Equal(t, "basic", lic.Plan)
	assert.True(t, lic.Active)

	wantExpiry := time.Now().UTC().AddDate(0, 0, 7)
	assert.WithinDuration(t, wantExpiry, lic.ExpirationDate, time.Minute)
}

func TestStartTrialIdempotent(t *testing.T) {
	svc, repo := newTestService()

	require.NoError(t, svc.StartTrial(context.Background(), "u1"))
	first := *repo.licenses["u1"]

	require.NoError(t, svc.StartTrial(context.Background(), "u1"))
	assert.Equal(t, first.ID, repo.licenses["u1"].ID)
}

func TestHasValidLicense(t *testing.T) {
	svc, repo := newTestService()

	valid, err := svc.HasValidLicense(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, valid, "no license row means unlicensed, not an error")

	require.NoError(t, svc.StartTrial(context.Background(), "u1"))

	valid, err = svc.HasValidLicense(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, valid)

	repo.licenses["u1"].ExpirationDate = time.Now().Add(-time.Hour)
	valid, err = svc.HasValidLicense(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, valid)

	repo.licenses["u1"].ExpirationDate = time.Now().Add(time.Hour)
	repo.licenses["u1"].Active = false
	valid, err = svc.HasValidLicense(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, valid, "deactivated license is invalid even before expiry")
}

func TestMaxProducts(t *testing.T) {
	svc, repo := newTestService()

	// unlicensed users get the trial plan ceiling
	limit, err := svc.MaxProducts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 15, limit)

	require.NoError(t, svc.StartTrial(context.Background(), "u1"))
	repo.licenses["u1"].Plan = "advanced"

	limit, err = svc.MaxProducts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 100, limit)

	repo.licenses["u1"].Plan = "pro"
	limit, err = svc.MaxProducts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, limit, "zero means unlimited")
}

func TestRequestRenewalRejectsSecondPending(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RequestRenewal(context.Background(), "u1", RequestRenewalRequest{
		TransactionCode: "TX-1",
		DaysRequested:   30,
	})
	require.NoError(t, err)

	_, err = svc.RequestRenewal(context.Background(), "u1", RequestRenewalRequest{
		TransactionCode: "TX-2",
		DaysRequested:   30,
	})
	require.Error(t, err)
}

func TestApproveRenewalExtendsFromExpiry(t *testing.T) {
	svc, repo := newTestService()
	require.NoError(t, svc.StartTrial(context.Background(), "u1"))

	// license still has time left; days stack on the current expiry
	currentExpiry := repo.licenses["u1"].ExpirationDate

	renewal, err := svc.RequestRenewal(context.Background(), "u1", RequestRenewalRequest{
		TransactionCode: "TX-1",
		DaysRequested:   30,
	})
	require.NoError(t, err)

	processed, err := svc.ProcessRenewal(context.Background(), renewal.ID, ProcessRenewalRequest{
		Action: "approve",
	})
	require.NoError(t, err)
	assert.Equal(t, RenewalApproved, processed.Status)

	lic := repo.licenses["u1"]
	assert.WithinDuration(t, currentExpiry.AddDate(0, 0, 30), lic.ExpirationDate, time.Second)
	assert.True(t, lic.Active)
}

func TestApproveRenewalExtendsFromNowWhenExpired(t *testing.T) {
	svc, repo := newTestService()
	require.NoError(t, svc.StartTrial(context.Background(), "u1"))

	repo.licenses["u1"].ExpirationDate = time.Now().UTC().AddDate(0, 0, -60)
	repo.licenses["u1"].Active = false

	renewal, err := svc.RequestRenewal(context.Background(), "u1", RequestRenewalRequest{
		TransactionCode: "TX-1",
		DaysRequested:   30,
	})
	require.NoError(t, err)

	_, err = svc.ProcessRenewal(context.Background(), renewal.ID, ProcessRenewalRequest{
		Action: "approve",
	})
	require.NoError(t, err)

	lic := repo.licenses["u1"]
	assert.WithinDuration(t,
		time.Now().UTC().AddDate(0, 0, 30), lic.ExpirationDate, time.Minute,
		"a lapsed license never backdates the paid period")
	assert.True(t, lic.Active, "approval reactivates")
}

func TestRejectRenewal(t *testing.T) {
	svc, repo := newTestService()
	require.NoError(t, svc.StartTrial(context.Background(), "u1"))
	before := repo.licenses["u1"].ExpirationDate

	renewal, err := svc.RequestRenewal(context.Background(), "u1", RequestRenewalRequest{
		TransactionCode: "TX-1",
		DaysRequested:   30,
	})
	require.NoError(t, err)

	processed, err := svc.ProcessRenewal(context.Background(), renewal.ID, ProcessRenewalRequest{
		Action:          "reject",
		RejectionReason: "payment not found",
	})
	require.NoError(t, err)
	assert.Equal(t, RenewalRejected, processed.Status)
	require.NotNil(t, processed.Notes)
	assert.Equal(t, "payment not found", *processed.Notes)

	assert.Equal(t, before, repo.licenses["u1"].ExpirationDate,
		"rejection leaves the license untouched")
}

func TestProcessRenewalTwiceFails(t *testing.T) {
	svc, _ := newTestService()

	renewal, err := svc.RequestRenewal(context.Background(), "u1", RequestRenewalRequest{
		TransactionCode: "TX-1",
		DaysRequested:   30,
	})
	require.NoError(t, err)

	_, err = svc.ProcessRenewal(context.Background(), renewal.ID, ProcessRenewalRequest{
		Action: "reject",
	})
	require.NoError(t, err)

	_, err = svc.ProcessRenewal(context.Background(), renewal.ID, ProcessRenewalRequest{
		Action: "approve",
	})
	require.Error(t, err)
}

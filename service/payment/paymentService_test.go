package paymentsvc

import (
	"context"
	"testing"
	"time"

	"bookrental/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type fakeTx struct{ pgx.Tx }

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeDB struct{}

func (fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

type mockPayments struct {
	insertFn func(ctx context.Context, tx pgx.Tx, p *model.Payment) error
	getFn    func(ctx context.Context, tx pgx.Tx, id int64) (*model.Payment, error)
	setFn    func(ctx context.Context, tx pgx.Tx, id int64, status model.SlipStatus, verifiedAt time.Time) error
	listFn   func(ctx context.Context, date time.Time) ([]PendingRow, error)
}

var _ Repo = (*mockPayments)(nil)

func (m *mockPayments) Insert(ctx context.Context, tx pgx.Tx, p *model.Payment) error {
	return m.insertFn(ctx, tx, p)
}
func (m *mockPayments) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Payment, error) {
	return m.getFn(ctx, tx, id)
}
func (m *mockPayments) SetStatus(ctx context.Context, tx pgx.Tx, id int64, status model.SlipStatus, verifiedAt time.Time) error {
	if m.setFn == nil {
		return nil
	}
	return m.setFn(ctx, tx, id, status, verifiedAt)
}
func (m *mockPayments) ListForDate(ctx context.Context, date time.Time) ([]PendingRow, error) {
	return m.listFn(ctx, date)
}

type mockRentals struct {
	getFn    func(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error)
	setPayFn func(ctx context.Context, tx pgx.Tx, rentalID int64, ps model.PaymentStatus) error
}

var _ RentalRepo = (*mockRentals)(nil)

func (m *mockRentals) GetForUpdate(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error) {
	return m.getFn(ctx, tx, rentalID)
}
func (m *mockRentals) SetPaymentStatus(ctx context.Context, tx pgx.Tx, rentalID int64, ps model.PaymentStatus) error {
	if m.setPayFn == nil {
		return nil
	}
	return m.setPayFn(ctx, tx, rentalID, ps)
}

func newTestService(p *mockPayments, r *mockRentals) *service {
	return &service{db: fakeDB{}, p: p, r: r, now: time.Now}
}

// --- tests ---

func TestSubmitSlip_MovesRentalToVerification(t *testing.T) {
	var gotPS model.PaymentStatus
	p := &mockPayments{
		insertFn: func(ctx context.Context, tx pgx.Tx, p *model.Payment) error {
			p.ID = 5
			return nil
		},
	}
	r := &mockRentals{
		getFn: func(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error) {
			return &model.Rental{ID: rentalID, UserID: 7, Status: model.RentalBooked, PaymentStatus: model.PaymentPending}, nil
		},
		setPayFn: func(ctx context.Context, tx pgx.Tx, rentalID int64, ps model.PaymentStatus) error {
			gotPS = ps
			return nil
		},
	}
	svc := newTestService(p, r)

	out, err := svc.SubmitSlip(context.Background(), 7, 1, 70, "/uploads/slip.jpg")
	require.NoError(t, err)
	require.Equal(t, int64(5), out.ID)
	require.Equal(t, model.SlipVerification, out.Status)
	require.Equal(t, model.PaymentVerification, gotPS)
}

func TestSubmitSlip_RejectedSlipMayBeReplaced(t *testing.T) {
	p := &mockPayments{
		insertFn: func(ctx context.Context, tx pgx.Tx, p *model.Payment) error { return nil },
	}
	r := &mockRentals{
		getFn: func(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error) {
			return &model.Rental{ID: rentalID, UserID: 7, Status: model.RentalBooked, PaymentStatus: model.PaymentRejected}, nil
		},
	}
	svc := newTestService(p, r)

	_, err := svc.SubmitSlip(context.Background(), 7, 1, 70, "/uploads/slip2.jpg")
	require.NoError(t, err)
}

func TestSubmitSlip_Gating(t *testing.T) {
	tests := []struct {
		name   string
		rental model.Rental
		uid    int64
		want   ErrCode
	}{
		{"not owner", model.Rental{UserID: 7, Status: model.RentalBooked, PaymentStatus: model.PaymentPending}, 8, ErrNotOwner},
		{"already paid", model.Rental{UserID: 7, Status: model.RentalBooked, PaymentStatus: model.PaymentPaid}, 7, ErrNotAllowed},
		{"under verification", model.Rental{UserID: 7, Status: model.RentalBooked, PaymentStatus: model.PaymentVerification}, 7, ErrNotAllowed},
		{"cancelled rental", model.Rental{UserID: 7, Status: model.RentalCancelled, PaymentStatus: model.PaymentPending}, 7, ErrNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &mockRentals{
				getFn: func(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error) {
					rr := tt.rental
					rr.ID = rentalID
					return &rr, nil
				},
			}
			svc := newTestService(&mockPayments{}, r)

			_, err := svc.SubmitSlip(context.Background(), tt.uid, 1, 70, "/uploads/slip.jpg")
			require.Equal(t, tt.want, Code(err))
		})
	}
}

func TestVerify_Approve(t *testing.T) {
	var slipStatus model.SlipStatus
	var rentalPS model.PaymentStatus
	p := &mockPayments{
		getFn: func(ctx context.Context, tx pgx.Tx, id int64) (*model.Payment, error) {
			return &model.Payment{ID: id, RentalID: 1, Status: model.SlipVerification}, nil
		},
		setFn: func(ctx context.Context, tx pgx.Tx, id int64, status model.SlipStatus, verifiedAt time.Time) error {
			slipStatus = status
			return nil
		},
	}
	r := &mockRentals{
		getFn: func(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error) {
			return &model.Rental{ID: rentalID, Status: model.RentalBooked, PaymentStatus: model.PaymentVerification}, nil
		},
		setPayFn: func(ctx context.Context, tx pgx.Tx, rentalID int64, ps model.PaymentStatus) error {
			rentalPS = ps
			return nil
		},
	}
	svc := newTestService(p, r)

	require.NoError(t, svc.Verify(context.Background(), 5, true))
	require.Equal(t, model.SlipPaid, slipStatus)
	require.Equal(t, model.PaymentPaid, rentalPS)
}

func TestVerify_Reject(t *testing.T) {
	var slipStatus model.SlipStatus
	var rentalPS model.PaymentStatus
	p := &mockPayments{
		getFn: func(ctx context.Context, tx pgx.Tx, id int64) (*model.Payment, error) {
			return &model.Payment{ID: id, RentalID: 1, Status: model.SlipVerification}, nil
		},
		setFn: func(ctx context.Context, tx pgx.Tx, id int64, status model.SlipStatus, verifiedAt time.Time) error {
			slipStatus = status
			return nil
		},
	}
	r := &mockRentals{
		getFn: func(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error) {
			return &model.Rental{ID: rentalID, Status: model.RentalBooked, PaymentStatus: model.PaymentVerification}, nil
		},
		setPayFn: func(ctx context.Context, tx pgx.Tx, rentalID int64, ps model.PaymentStatus) error {
			rentalPS = ps
			return nil
		},
	}
	svc := newTestService(p, r)

	require.NoError(t, svc.Verify(context.Background(), 5, false))
	require.Equal(t, model.SlipRejected, slipStatus)
	require.Equal(t, model.PaymentRejected, rentalPS)
}

func TestVerify_ApproveOnCancelledOwesRefund(t *testing.T) {
	var rentalPS model.PaymentStatus
	p := &mockPayments{
		getFn: func(ctx context.Context, tx pgx.Tx, id int64) (*model.Payment, error) {
			return &model.Payment{ID: id, RentalID: 1, Status: model.SlipVerification}, nil
		},
	}
	r := &mockRentals{
		getFn: func(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error) {
			return &model.Rental{ID: rentalID, Status: model.RentalCancelled, PaymentStatus: model.PaymentRefundVerification}, nil
		},
		setPayFn: func(ctx context.Context, tx pgx.Tx, rentalID int64, ps model.PaymentStatus) error {
			rentalPS = ps
			return nil
		},
	}
	svc := newTestService(p, r)

	require.NoError(t, svc.Verify(context.Background(), 5, true))
	require.Equal(t, model.PaymentRefundPending, rentalPS)
}

func TestVerify_RefundSettlement(t *testing.T) {
	var slipStatus model.SlipStatus
	var rentalPS model.PaymentStatus
	p := &mockPayments{
		getFn: func(ctx context.Context, tx pgx.Tx, id int64) (*model.Payment, error) {
			return &model.Payment{ID: id, RentalID: 1, Status: model.SlipPaid}, nil
		},
		setFn: func(ctx context.Context, tx pgx.Tx, id int64, status model.SlipStatus, verifiedAt time.Time) error {
			slipStatus = status
			return nil
		},
	}
	r := &mockRentals{
		getFn: func(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error) {
			return &model.Rental{ID: rentalID, Status: model.RentalCancelled, PaymentStatus: model.PaymentRefundPending}, nil
		},
		setPayFn: func(ctx context.Context, tx pgx.Tx, rentalID int64, ps model.PaymentStatus) error {
			rentalPS = ps
			return nil
		},
	}
	svc := newTestService(p, r)

	// approved=false confirms the transfer back was made.
	require.NoError(t, svc.Verify(context.Background(), 5, false))
	require.Equal(t, model.SlipRefunded, slipStatus)
	require.Equal(t, model.PaymentRefunded, rentalPS)
}

func TestVerify_SettledSlipNotReviewable(t *testing.T) {
	p := &mockPayments{
		getFn: func(ctx context.Context, tx pgx.Tx, id int64) (*model.Payment, error) {
			return &model.Payment{ID: id, RentalID: 1, Status: model.SlipPaid}, nil
		},
	}
	r := &mockRentals{
		getFn: func(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error) {
			return &model.Rental{ID: rentalID, Status: model.RentalBooked, PaymentStatus: model.PaymentPaid}, nil
		},
	}
	svc := newTestService(p, r)

	err := svc.Verify(context.Background(), 5, true)
	require.Equal(t, ErrNotAllowed, Code(err))
}

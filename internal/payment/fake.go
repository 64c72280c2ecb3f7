package payment

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory Provider for tests and for running the server
// without stripe credentials. Sessions start unpaid; tests flip them with
// MarkPaid.
type Fake struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*Session

	CreateErr   error
	RetrieveErr error
}

func NewFake() *Fake {
	return &Fake{sessions: make(map[string]*Session)}
}

func (f *Fake) CreateSession(_ context.Context, p SessionParams) (*Session, error) {
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var total int64
	for _, li := range p.LineItems {
		total += li.UnitAmount * li.Quantity
	}

	f.seq++
	sess := &Session{
		ID:            fmt.Sprintf("cs_test_%d", f.seq),
		PaymentStatus: "unpaid",
		AmountTotal:   total,
		Metadata:      p.Metadata,
	}
	f.sessions[sess.ID] = sess
	cp := *sess
	return &cp, nil
}

func (f *Fake) RetrieveSession(_ context.Context, id string) (*Session, error) {
	if f.RetrieveErr != nil {
		return nil, f.RetrieveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("fake payment: unknown session %s", id)
	}
	cp := *sess
	return &cp, nil
}

func (f *Fake) CreatePercentCoupon(_ context.Context, percent int) (string, error) {
	return fmt.Sprintf("fake_coupon_%d", percent), nil
}

func (f *Fake) MarkPaid(id string, amountTotal int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sess, ok := f.sessions[id]; ok {
		sess.PaymentStatus = StatusPaid
		if amountTotal > 0 {
			sess.AmountTotal = amountTotal
		}
	}
}

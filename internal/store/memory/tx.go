package memory

import (
	"context"
	"errors"
	"sync"

	"bizdesk/internal/domain/payment"
	"bizdesk/internal/store/repositories"
)

var errTxDone = errors.New("transaction already finished")

// unitOfWork serialises transactions. Writes are staged and applied on Commit.
type unitOfWork struct{ s *Store }

func (u unitOfWork) Begin(ctx context.Context) (repositories.Transaction, error) {
	locked := make(chan struct{})
	go func() {
		u.s.txMu.Lock()
		close(locked)
	}()
	select {
	case <-locked:
		return &transaction{s: u.s, staged: make(map[int64]payment.Payment)}, nil
	case <-ctx.Done():
		// release the lock once the goroutine gets it
		go func() {
			<-locked
			u.s.txMu.Unlock()
		}()
		return nil, ctx.Err()
	}
}

type transaction struct {
	s      *Store
	once   sync.Once
	done   bool
	staged map[int64]payment.Payment
}

func (t *transaction) Commit(context.Context) error {
	if t.done {
		return errTxDone
	}
	t.s.mu.Lock()
	var err error
	for _, p := range t.staged {
		if err = (paymentRepo{t.s}).save(&p); err != nil {
			break
		}
	}
	t.s.mu.Unlock()
	t.finish()
	return err
}

func (t *transaction) Rollback(context.Context) error {
	if t.done {
		return errTxDone
	}
	t.finish()
	return nil
}

func (t *transaction) finish() {
	t.once.Do(func() {
		t.done = true
		t.s.txMu.Unlock()
	})
}

func (t *transaction) Payments() repositories.LockingPaymentRepository {
	return txPayments{t}
}

type txPayments struct{ t *transaction }

// FindByIDForUpdate needs no row lock: the transaction holds the store's
// transaction lock until it ends.
func (r txPayments) FindByIDForUpdate(ctx context.Context, tenantID, id int64) (*payment.Payment, error) {
	if p, ok := r.t.staged[id]; ok && p.TenantID == tenantID {
		p = clonePayment(p)
		return &p, nil
	}
	return paymentRepo{r.t.s}.FindByID(ctx, tenantID, id)
}

func (r txPayments) Save(_ context.Context, p *payment.Payment) error {
	if r.t.done {
		return errTxDone
	}
	if p.ID == 0 {
		return errors.New("memory transactions only update existing payments")
	}
	r.t.staged[p.ID] = clonePayment(*p)
	return nil
}

package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"tienda/internal/pkg/money"
	"tienda/internal/service/promotion/domain"
)

// fakeCouponRepo 在内存中模拟仓储层的语义，
// ConsumeOnce 与 SQL 条件更新一样在单个临界区内判定并加一。
type fakeCouponRepo struct {
	mu      sync.Mutex
	coupons map[string]*domain.Coupon
	nextID  int64
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{coupons: make(map[string]*domain.Coupon)}
}

func (f *fakeCouponRepo) FindByCode(_ context.Context, code string) (*domain.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.coupons[code]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCouponRepo) Create(_ context.Context, coupon *domain.Coupon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.coupons[coupon.Code]; ok {
		return domain.ErrCouponCodeTaken
	}
	f.nextID++
	coupon.ID = f.nextID
	coupon.CreatedAt = time.Now()
	coupon.UpdatedAt = coupon.CreatedAt
	cp := *coupon
	f.coupons[coupon.Code] = &cp
	return nil
}

func (f *fakeCouponRepo) Update(_ context.Context, coupon *domain.Coupon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.coupons[coupon.Code]
	if !ok {
		return domain.ErrCouponNotFound
	}
	cp := *coupon
	cp.CurrentUses = existing.CurrentUses
	f.coupons[coupon.Code] = &cp
	return nil
}

func (f *fakeCouponRepo) List(_ context.Context) ([]*domain.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Coupon, 0, len(f.coupons))
	for _, c := range f.coupons {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeCouponRepo) ConsumeOnce(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.coupons[code]
	if !ok {
		return domain.ErrCouponNotFound
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return domain.ErrCouponExhausted
	}
	c.CurrentUses++
	return nil
}

func newTestService(repo domain.CouponRepository) *PromotionService {
	return NewPromotionService(repo, nil, otel.Tracer("test"))
}

func seedCoupon(t *testing.T, repo *fakeCouponRepo, maxUses *int) {
	t.Helper()
	err := repo.Create(context.Background(), &domain.Coupon{
		Code:        "VERANO20",
		Type:        domain.DiscountPercentage,
		Value:       decimal.NewFromInt(20),
		MinPurchase: money.FromPesos(500),
		MaxUses:     maxUses,
		Active:      true,
	})
	if err != nil {
		t.Fatalf("seed coupon: %v", err)
	}
}

func TestValidateCouponComputesDiscount(t *testing.T) {
	repo := newFakeCouponRepo()
	maxUses := 2
	seedCoupon(t, repo, &maxUses)
	svc := newTestService(repo)

	resp, err := svc.ValidateCoupon(context.Background(), &ValidateCouponRequest{
		Code:     " verano20 ",
		Subtotal: money.FromPesos(800),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.DiscountAmount.String() != "160.00" {
		t.Errorf("discount = %s, want 160.00", resp.DiscountAmount)
	}
	if resp.Code != "VERANO20" {
		t.Errorf("code = %s, want VERANO20", resp.Code)
	}
}

func TestValidateCouponDoesNotConsume(t *testing.T) {
	repo := newFakeCouponRepo()
	maxUses := 2
	seedCoupon(t, repo, &maxUses)
	svc := newTestService(repo)

	for i := 0; i < 5; i++ {
		if _, err := svc.ValidateCoupon(context.Background(), &ValidateCouponRequest{
			Code:     "VERANO20",
			Subtotal: money.FromPesos(800),
		}); err != nil {
			t.Fatalf("validation %d failed: %v", i, err)
		}
	}
	c, _ := repo.FindByCode(context.Background(), "VERANO20")
	if c.CurrentUses != 0 {
		t.Errorf("current_uses = %d after validations, want 0", c.CurrentUses)
	}
}

func TestValidateCouponNotFound(t *testing.T) {
	svc := newTestService(newFakeCouponRepo())
	_, err := svc.ValidateCoupon(context.Background(), &ValidateCouponRequest{
		Code:     "NOPE",
		Subtotal: money.FromPesos(800),
	})
	if !errors.Is(err, domain.ErrCouponNotFound) {
		t.Errorf("got %v, want ErrCouponNotFound", err)
	}
}

func TestConsumeCouponIncrements(t *testing.T) {
	repo := newFakeCouponRepo()
	maxUses := 2
	seedCoupon(t, repo, &maxUses)
	svc := newTestService(repo)

	if err := svc.ConsumeCoupon(context.Background(), "VERANO20"); err != nil {
		t.Fatalf("consume: %v", err)
	}
	c, _ := repo.FindByCode(context.Background(), "VERANO20")
	if c.CurrentUses != 1 {
		t.Errorf("current_uses = %d, want 1", c.CurrentUses)
	}
}

// 并发核销 max_uses=1 的券，必须恰好一个成功。
func TestConcurrentConsumeNeverExceedsMaxUses(t *testing.T) {
	repo := newFakeCouponRepo()
	maxUses := 1
	seedCoupon(t, repo, &maxUses)
	svc := newTestService(repo)

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.ConsumeCoupon(context.Background(), "VERANO20")
		}()
	}
	wg.Wait()
	close(results)

	var successes, exhausted int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrCouponExhausted):
			exhausted++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if exhausted != attempts-1 {
		t.Errorf("exhausted = %d, want %d", exhausted, attempts-1)
	}
	c, _ := repo.FindByCode(context.Background(), "VERANO20")
	if c.CurrentUses != 1 {
		t.Errorf("current_uses = %d, want 1", c.CurrentUses)
	}
}

func TestUpdateCouponPreservesUsageCounter(t *testing.T) {
	repo := newFakeCouponRepo()
	maxUses := 5
	seedCoupon(t, repo, &maxUses)
	svc := newTestService(repo)

	for i := 0; i < 3; i++ {
		if err := svc.ConsumeCoupon(context.Background(), "VERANO20"); err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
	}

	newMax := 10
	view, err := svc.UpdateCoupon(context.Background(), "VERANO20", &CouponInput{
		Description: "rebaja de verano",
		Type:        string(domain.DiscountPercentage),
		Value:       decimal.NewFromInt(25),
		MinPurchase: money.FromPesos(600),
		MaxUses:     &newMax,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if view.CurrentUses != 3 {
		t.Errorf("current_uses = %d after update, want 3", view.CurrentUses)
	}
}

func TestDeactivateCouponIsSoft(t *testing.T) {
	repo := newFakeCouponRepo()
	seedCoupon(t, repo, nil)
	svc := newTestService(repo)

	if err := svc.DeactivateCoupon(context.Background(), "VERANO20"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	// 券还在，只是不可用
	view, err := svc.GetCoupon(context.Background(), "VERANO20")
	if err != nil {
		t.Fatalf("get after deactivate: %v", err)
	}
	if view.Active {
		t.Error("coupon still active after deactivation")
	}
	_, err = svc.ValidateCoupon(context.Background(), &ValidateCouponRequest{
		Code:     "VERANO20",
		Subtotal: money.FromPesos(800),
	})
	if !errors.Is(err, domain.ErrCouponInactive) {
		t.Errorf("got %v, want ErrCouponInactive", err)
	}
}

package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"tienda/internal/pkg/money"
	"tienda/internal/service/order/domain"
)

// fakeOrderRepo 在内存中复刻仓储的条件更新语义。
type fakeOrderRepo struct {
	mu         sync.Mutex
	orders     map[uuid.UUID]*domain.Order
	nextNumber int64
	failCreate bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("storage unavailable")
	}
	f.nextNumber++
	order.OrderNumber = f.nextNumber
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (f *fakeOrderRepo) FindByCustomer(_ context.Context, customerID string) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status != from {
		return domain.ErrInvalidTransition
	}
	o.Status = to
	return nil
}

func (f *fakeOrderRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, from, to domain.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.PaymentStatus != from {
		return domain.ErrInvalidTransition
	}
	o.PaymentStatus = to
	return nil
}

func (f *fakeOrderRepo) LifetimeSpend(_ context.Context, customerID string) (money.Amount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := money.Zero()
	for _, o := range f.orders {
		if o.CustomerID == customerID && o.Status != domain.StatusCancelled {
			sum = sum.Add(o.Total)
		}
	}
	return sum, nil
}

type fakeCoupons struct {
	discount    money.Amount
	validateErr error
	consumeErr  error
	consumed    []string
}

func (f *fakeCoupons) Validate(_ context.Context, _ string, _ money.Amount) (money.Amount, error) {
	if f.validateErr != nil {
		return money.Amount{}, f.validateErr
	}
	return f.discount, nil
}

func (f *fakeCoupons) Consume(_ context.Context, code string) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	f.consumed = append(f.consumed, code)
	return nil
}

type fakeGranter struct {
	granted []int64
	err     error
}

func (f *fakeGranter) GrantPoints(_ context.Context, _ string, total money.Amount, _ string, _ int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	points := total.WholePesos() / 100 * 10
	f.granted = append(f.granted, points)
	return points, nil
}

func newOrderService(repo domain.OrderRepository, coupons *fakeCoupons, granter *fakeGranter) *OrderService {
	return NewOrderService(repo, coupons, granter, nil, otel.Tracer("test"))
}

func createRequest(subtotalPesos int64, couponCode string) *CreateOrderRequest {
	return &CreateOrderRequest{
		CustomerID: "cust-1",
		Items: []ItemInput{{
			ProductID: "p-1",
			Name:      "Camiseta",
			UnitPrice: money.FromPesos(subtotalPesos),
			Quantity:  1,
		}},
		ShippingCost:  money.Zero(),
		PaymentMethod: "card",
		CouponCode:    couponCode,
	}
}

// 小计 950、无运费、无券：合计 950，授予 90 分。
func TestCreateOrderGrantsPoints(t *testing.T) {
	repo := newFakeOrderRepo()
	granter := &fakeGranter{}
	svc := newOrderService(repo, &fakeCoupons{}, granter)

	resp, err := svc.CreateOrder(context.Background(), createRequest(950, ""))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if resp.Order.Total.String() != "950.00" {
		t.Errorf("total = %s, want 950.00", resp.Order.Total)
	}
	if resp.PointsGranted != 90 {
		t.Errorf("points = %d, want 90", resp.PointsGranted)
	}
	if resp.Order.OrderNumber != 1 {
		t.Errorf("order number = %d, want 1", resp.Order.OrderNumber)
	}
	if resp.Order.Status != string(domain.StatusPending) || resp.Order.PaymentStatus != string(domain.PaymentPending) {
		t.Errorf("initial state = %s/%s, want pending/pending", resp.Order.Status, resp.Order.PaymentStatus)
	}
}

// 百分比券 20% 作用于小计 800：折扣 160，合计 640，券核销一次。
func TestCreateOrderAppliesCoupon(t *testing.T) {
	repo := newFakeOrderRepo()
	coupons := &fakeCoupons{discount: money.FromPesos(160)}
	svc := newOrderService(repo, coupons, &fakeGranter{})

	resp, err := svc.CreateOrder(context.Background(), createRequest(800, "VERANO20"))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if resp.Order.Discount.String() != "160.00" {
		t.Errorf("discount = %s, want 160.00", resp.Order.Discount)
	}
	if resp.Order.Total.String() != "640.00" {
		t.Errorf("total = %s, want 640.00", resp.Order.Total)
	}
	if len(coupons.consumed) != 1 || coupons.consumed[0] != "VERANO20" {
		t.Errorf("consumed = %v, want exactly one VERANO20", coupons.consumed)
	}
}

// 券被拒绝时订单照常创建，只是没有折扣，也不核销。
func TestCreateOrderCouponRejectionDoesNotAbort(t *testing.T) {
	repo := newFakeOrderRepo()
	coupons := &fakeCoupons{validateErr: errors.New("coupon has reached its maximum number of uses")}
	svc := newOrderService(repo, coupons, &fakeGranter{})

	resp, err := svc.CreateOrder(context.Background(), createRequest(800, "AGOTADO"))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if !resp.Order.Discount.IsZero() {
		t.Errorf("discount = %s, want 0.00", resp.Order.Discount)
	}
	if resp.Order.Total.String() != "800.00" {
		t.Errorf("total = %s, want 800.00", resp.Order.Total)
	}
	if len(coupons.consumed) != 0 {
		t.Errorf("rejected coupon must not be consumed, got %v", coupons.consumed)
	}
}

// 积分授予失败只记日志，订单创建本身必须成功。
func TestCreateOrderLoyaltyFailureIsSwallowed(t *testing.T) {
	repo := newFakeOrderRepo()
	granter := &fakeGranter{err: errors.New("loyalty store down")}
	svc := newOrderService(repo, &fakeCoupons{}, granter)

	resp, err := svc.CreateOrder(context.Background(), createRequest(950, ""))
	if err != nil {
		t.Fatalf("create order must succeed despite loyalty failure: %v", err)
	}
	if resp.PointsGranted != 0 {
		t.Errorf("points = %d, want 0", resp.PointsGranted)
	}
}

// 订单本身落库失败才是致命错误。
func TestCreateOrderPersistFailureIsFatal(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.failCreate = true
	svc := newOrderService(repo, &fakeCoupons{}, &fakeGranter{})

	if _, err := svc.CreateOrder(context.Background(), createRequest(950, "")); err == nil {
		t.Fatal("expected error when order persistence fails")
	}
}

func TestCreateOrderValidatesItems(t *testing.T) {
	svc := newOrderService(newFakeOrderRepo(), &fakeCoupons{}, &fakeGranter{})

	req := createRequest(100, "")
	req.Items[0].Quantity = 0
	if _, err := svc.CreateOrder(context.Background(), req); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("got %v, want ErrInvalidQuantity", err)
	}

	req = createRequest(100, "")
	req.Items = nil
	if _, err := svc.CreateOrder(context.Background(), req); !errors.Is(err, domain.ErrEmptyItems) {
		t.Errorf("got %v, want ErrEmptyItems", err)
	}
}

func TestTransitionStatusSequence(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newOrderService(repo, &fakeCoupons{}, &fakeGranter{})

	resp, err := svc.CreateOrder(context.Background(), createRequest(500, ""))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	orderID := resp.Order.ID

	// pending→confirmed→cancelled 成立
	for _, next := range []string{"confirmed", "cancelled"} {
		if _, err := svc.TransitionStatus(context.Background(), &TransitionRequest{OrderID: orderID, Status: next}); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	// 随后 cancelled→shipped 必须失败
	_, err = svc.TransitionStatus(context.Background(), &TransitionRequest{OrderID: orderID, Status: "shipped"})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("got %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionStatusUnknownOrder(t *testing.T) {
	svc := newOrderService(newFakeOrderRepo(), &fakeCoupons{}, &fakeGranter{})
	_, err := svc.TransitionStatus(context.Background(), &TransitionRequest{OrderID: uuid.NewString(), Status: "confirmed"})
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("got %v, want ErrOrderNotFound", err)
	}
}

func TestSetPaymentStatusTable(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newOrderService(repo, &fakeCoupons{}, &fakeGranter{})

	resp, err := svc.CreateOrder(context.Background(), createRequest(500, ""))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	orderID := resp.Order.ID

	// pending→refunded 非法
	_, err = svc.SetPaymentStatus(context.Background(), &PaymentStatusRequest{OrderID: orderID, PaymentStatus: "refunded"})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("got %v, want ErrInvalidTransition", err)
	}

	if _, err := svc.SetPaymentStatus(context.Background(), &PaymentStatusRequest{OrderID: orderID, PaymentStatus: "paid"}); err != nil {
		t.Fatalf("pending -> paid: %v", err)
	}
	if _, err := svc.SetPaymentStatus(context.Background(), &PaymentStatusRequest{OrderID: orderID, PaymentStatus: "refunded"}); err != nil {
		t.Fatalf("paid -> refunded: %v", err)
	}
}

// 并发对同一订单发起互斥的流转，输家必须拿到 InvalidTransition 而不是覆盖赢家。
func TestConcurrentTransitionsSerialize(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newOrderService(repo, &fakeCoupons{}, &fakeGranter{})

	resp, err := svc.CreateOrder(context.Background(), createRequest(500, ""))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	orderID := resp.Order.ID

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.TransitionStatus(context.Background(), &TransitionRequest{OrderID: orderID, Status: "confirmed"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
}

func TestReorderReturnsOnlyItems(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newOrderService(repo, &fakeCoupons{}, &fakeGranter{})

	resp, err := svc.CreateOrder(context.Background(), createRequest(500, ""))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	re, err := svc.Reorder(context.Background(), resp.Order.ID)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if len(re.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(re.Items))
	}
	if re.Items[0].ProductID != "p-1" || re.Items[0].UnitPrice.String() != "500.00" {
		t.Errorf("item = %+v", re.Items[0])
	}
}

// 累计消费排除已取消订单。
func TestLifetimeSpendExcludesCancelled(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newOrderService(repo, &fakeCoupons{}, &fakeGranter{})

	if _, err := svc.CreateOrder(context.Background(), createRequest(700, "")); err != nil {
		t.Fatalf("create order: %v", err)
	}
	cancelled, err := svc.CreateOrder(context.Background(), createRequest(300, ""))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := svc.TransitionStatus(context.Background(), &TransitionRequest{OrderID: cancelled.Order.ID, Status: "cancelled"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	spend, err := svc.LifetimeSpend(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("lifetime spend: %v", err)
	}
	if spend.String() != "700.00" {
		t.Errorf("lifetime spend = %s, want 700.00", spend)
	}
}

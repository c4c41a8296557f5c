// internal/service/loyalty/domain/repository.go
package domain

import "context"

// TransactionRepository 是积分流水的持久化端口。流水只追加，从不更新或删除。
type TransactionRepository interface {
	// Balance 返回客户全部流水增量之和，无流水时为 0。
	Balance(ctx context.Context, customerID string) (int64, error)
	// Append 追加一条流水（用于下单积分）。
	Append(ctx context.Context, tx *Transaction) error
	// AppendRedemption 在同一个存储事务内完成：重读余额、校验充足性、
	// 插入负向流水。余额不足返回 ErrInsufficientPoints。
	// 两个并发兑换请求不可能联手把余额打成负数。
	AppendRedemption(ctx context.Context, tx *Transaction) error
	// History 按时间倒序分页返回客户的流水。
	History(ctx context.Context, customerID string, limit, offset int) ([]*Transaction, error)
}

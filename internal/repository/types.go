package repository

// LinkListFilter 查询支付链接列表的过滤条件
type LinkListFilter struct {
	Keyword  string // 匹配 id / 标题 / 收款账户
	Page     int
	PageSize int // <= 0 表示不分页
}

// PaymentAttemptListFilter 查询支付尝试列表的过滤条件
type PaymentAttemptListFilter struct {
	LinkID   string
	Status   string
	Page     int
	PageSize int
}

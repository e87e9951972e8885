package models

// TradesQuery filters GET /api/v1/trades.
type TradesQuery struct {
	Trader string `form:"trader"`
	Limit  int    `form:"limit" binding:"omitempty,min=0"` // 0 = all
}

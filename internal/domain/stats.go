package domain

import "github.com/shopspring/decimal"

// DashboardInfo is derived from the committed trades and never stored.
type DashboardInfo struct {
	Overall       decimal.Decimal `json:"overall"`
	TodayPercents float64         `json:"today_percents"`
}

func EmptyDashboardInfo() DashboardInfo {
	return DashboardInfo{Overall: decimal.Zero}
}

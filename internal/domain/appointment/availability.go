package appointment

import "time"

type SlotQuery struct {
	TenantID  string
	ServiceID uint
	StylistID uint
	Date      time.Time
}

type StylistQuery struct {
	TenantID  string
	ServiceID uint
	Date      time.Time
}

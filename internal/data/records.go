package data

import (
	"context"
	"time"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/model"
)

// MemberDividend is one member's latest-period dividend.
type MemberDividend struct {
	MemberName string
	Dividend   float64
	Period     *time.Time
}

// LatestMemberDividends returns every distinct member with the dividend
// from their most recent period.
func (d *Data) LatestMemberDividends(ctx context.Context, limit int) ([]MemberDividend, error) {
	var out []MemberDividend
	err := d.DB.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (member_name) member_name, dividend, period
		FROM member_records
		ORDER BY member_name, period DESC NULLS LAST
		LIMIT ?`, limit).Scan(&out).Error
	return out, err
}

// MemberRecordsByName matches members by name fragment,
// case-insensitively, newest period first.
func (d *Data) MemberRecordsByName(ctx context.Context, name string, limit int) ([]model.MemberRecord, error) {
	var out []model.MemberRecord
	err := d.DB.WithContext(ctx).
		Where("member_name ILIKE ?", "%"+name+"%").
		Order("period DESC NULLS LAST").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// RecentFinancialLines returns the most recent financial line items,
// ordered by period then magnitude.
func (d *Data) RecentFinancialLines(ctx context.Context, limit int) ([]model.FinancialRecord, error) {
	var out []model.FinancialRecord
	err := d.DB.WithContext(ctx).Raw(`
		SELECT * FROM financial_records
		ORDER BY period DESC NULLS LAST, abs(amount) DESC
		LIMIT ?`, limit).Scan(&out).Error
	return out, err
}

package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCategories(t *testing.T) {
	tests := []struct {
		name     string
		category string
	}{
		{"financial_2025-08.xlsx", CategoryFinancial},
		{"Finance Summary.pdf", CategoryFinancial},
		{"budget-draft.csv", CategoryFinancial},
		{"Audit Report Q2 2025.pdf", CategoryFinancial},
		{"member_dividends_august_2025.xlsx", CategoryMember},
		{"Dividend Qualification List.xlsx", CategoryMember},
		{"loan_book.csv", CategoryLoan},
		{"SOYOSOYO SACCO BYLAWS.pdf", CategoryPolicy},
		{"savings-policy.txt", CategoryPolicy},
		{"minutes.txt", CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, Classify(tt.name).Category)
		})
	}
}

// Priority order: first rule match wins, so a file naming both a loan and
// a dividend is member data, and a financial member list is financial.
func TestClassifyOrderIsFixed(t *testing.T) {
	assert.Equal(t, CategoryMember, Classify("dividend_on_loans.xlsx").Category)
	assert.Equal(t, CategoryFinancial, Classify("financial_member_summary.xlsx").Category)
}

func TestParsePeriodIdioms(t *testing.T) {
	tests := []struct {
		name string
		want time.Time
	}{
		{"report 31 August 2025.pdf", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
		{"financial aug 2025.xlsx", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
		{"financial_2025-09.xlsx", time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"financial_2025.09.xlsx", time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"financial_2025_12.xlsx", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
		{"audit Q3 2024.pdf", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
		{"audit q1_2025.pdf", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period := Classify(tt.name).Period
			require.NotNil(t, period)
			assert.True(t, period.Equal(tt.want), "got %v want %v", period, tt.want)
		})
	}
}

func TestParsePeriodStatic(t *testing.T) {
	for _, name := range []string{
		"bylaws.pdf",
		"members.xlsx",
		"financial_2025-13.xlsx", // month out of range
		"policy v2.txt",
	} {
		assert.Nil(t, Classify(name).Period, name)
	}
}

func TestClassifyNeverFails(t *testing.T) {
	assert.Equal(t, CategoryGeneral, Classify("").Category)
	assert.Nil(t, Classify("").Period)
}

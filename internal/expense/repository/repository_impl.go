package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	expensedomain "github.com/socimed/fiscal/internal/expense/domain"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) expensedomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListDirect(ctx context.Context, companyID, partnerID snowflake.ID, start, end time.Time) ([]expensedomain.PartnerExpenseLine, error) {
	var expenses []expensedomain.Expense
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND partner_id = ? AND apportioned = ?", companyID, partnerID, false).
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC, id ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	lines := make([]expensedomain.PartnerExpenseLine, 0, len(expenses))
	for _, e := range expenses {
		lines = append(lines, expensedomain.PartnerExpenseLine{
			ExpenseID:    e.ID,
			Date:         e.Date,
			GroupCode:    e.GroupCode,
			Description:  e.Description,
			TotalAmount:  e.Amount,
			Percentage:   hundred,
			PartnerValue: e.Amount,
		})
	}
	return lines, nil
}

func (r *repository) ListApportioned(ctx context.Context, companyID, partnerID snowflake.ID, start, end time.Time) ([]expensedomain.PartnerExpenseLine, error) {
	var expenses []expensedomain.Expense
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND apportioned = ?", companyID, true).
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC, id ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, nil
	}

	ids := make([]snowflake.ID, 0, len(expenses))
	for _, e := range expenses {
		ids = append(ids, e.ID)
	}

	var rows []expensedomain.ExpenseApportionment
	if err := r.db.WithContext(ctx).
		Where("expense_id IN ? AND partner_id = ?", ids, partnerID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byExpense := make(map[snowflake.ID]expensedomain.ExpenseApportionment, len(rows))
	for _, row := range rows {
		byExpense[row.ExpenseID] = row
	}

	var lines []expensedomain.PartnerExpenseLine
	for _, e := range expenses {
		row, ok := byExpense[e.ID]
		if !ok {
			continue
		}
		value := e.Amount.Mul(row.Percentage).Div(hundred).Round(2)
		lines = append(lines, expensedomain.PartnerExpenseLine{
			ExpenseID:    e.ID,
			Date:         e.Date,
			GroupCode:    e.GroupCode,
			Description:  e.Description,
			TotalAmount:  e.Amount,
			Percentage:   row.Percentage,
			PartnerValue: value,
		})
	}
	return lines, nil
}

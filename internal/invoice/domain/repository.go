package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Repository is the read-only boundary to the invoice store. Both listings
// exclude cancelled invoices and preload partner share rows.
type Repository interface {
	// ListByEmission selects invoices whose emission date falls in
	// [start, end).
	ListByEmission(ctx context.Context, companyID snowflake.ID, start, end time.Time) ([]Invoice, error)
	// ListByReceipt selects invoices whose receipt date is non-null and
	// falls in [start, end).
	ListByReceipt(ctx context.Context, companyID snowflake.ID, start, end time.Time) ([]Invoice, error)
}

package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// RevenueByCategory is a gross revenue aggregation split by service category.
type RevenueByCategory struct {
	Consultations decimal.Decimal
	Other         decimal.Decimal
	Total         decimal.Decimal
}

// WithheldTotals is a per-tax sum of withheld amounts.
type WithheldTotals struct {
	IRPJ   decimal.Decimal
	CSLL   decimal.Decimal
	PIS    decimal.Decimal
	COFINS decimal.Decimal
	ISS    decimal.Decimal
}

func (w WithheldTotals) Add(o WithheldTotals) WithheldTotals {
	return WithheldTotals{
		IRPJ:   w.IRPJ.Add(o.IRPJ),
		CSLL:   w.CSLL.Add(o.CSLL),
		PIS:    w.PIS.Add(o.PIS),
		COFINS: w.COFINS.Add(o.COFINS),
		ISS:    w.ISS.Add(o.ISS),
	}
}

// PartnerAllocation sums the pre-computed share rows of an invoice set
// for a single partner.
type PartnerAllocation struct {
	Gross      decimal.Decimal
	Net        decimal.Decimal
	ByCategory RevenueByCategory
	Withheld   WithheldTotals
}

// AggregateRevenue sums gross revenue by category over an invoice set.
// Cancelled invoices never contribute, regardless of how the set was
// selected.
func AggregateRevenue(invoices []Invoice) RevenueByCategory {
	var agg RevenueByCategory
	for _, inv := range invoices {
		if inv.Status == StatusCancelled {
			continue
		}
		switch inv.Category {
		case CategoryConsultations:
			agg.Consultations = agg.Consultations.Add(inv.GrossValue)
		default:
			agg.Other = agg.Other.Add(inv.GrossValue)
		}
	}
	agg.Total = agg.Consultations.Add(agg.Other)
	return agg
}

// AggregateWithheld sums the per-tax withheld amounts over an invoice set,
// excluding cancelled invoices.
func AggregateWithheld(invoices []Invoice) WithheldTotals {
	var agg WithheldTotals
	for _, inv := range invoices {
		if inv.Status == StatusCancelled {
			continue
		}
		agg = agg.Add(WithheldTotals{
			IRPJ:   inv.WithheldIRPJ,
			CSLL:   inv.WithheldCSLL,
			PIS:    inv.WithheldPIS,
			COFINS: inv.WithheldCOFINS,
			ISS:    inv.WithheldISS,
		})
	}
	return agg
}

// AllocateToPartner sums the partner's pre-computed share rows over an
// invoice set. An invoice with no share row for the partner contributes
// zero. The same splitter serves emission-dated and receipt-dated sets;
// only the set passed in differs.
func AllocateToPartner(invoices []Invoice, partnerID snowflake.ID) PartnerAllocation {
	var alloc PartnerAllocation
	for _, inv := range invoices {
		if inv.Status == StatusCancelled {
			continue
		}
		for _, share := range inv.PartnerShares {
			if share.PartnerID != partnerID {
				continue
			}
			alloc.Gross = alloc.Gross.Add(share.GrossAmount)
			alloc.Net = alloc.Net.Add(share.NetAmount)
			switch inv.Category {
			case CategoryConsultations:
				alloc.ByCategory.Consultations = alloc.ByCategory.Consultations.Add(share.GrossAmount)
			default:
				alloc.ByCategory.Other = alloc.ByCategory.Other.Add(share.GrossAmount)
			}
			alloc.Withheld = alloc.Withheld.Add(WithheldTotals{
				IRPJ:   share.WithheldIRPJ,
				CSLL:   share.WithheldCSLL,
				PIS:    share.WithheldPIS,
				COFINS: share.WithheldCOFINS,
				ISS:    share.WithheldISS,
			})
		}
	}
	alloc.ByCategory.Total = alloc.ByCategory.Consultations.Add(alloc.ByCategory.Other)
	return alloc
}

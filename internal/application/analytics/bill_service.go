package analytics

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/apinexus/backend/internal/domain/analytics"
	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/apinexus/backend/internal/domain/shared"
	"github.com/apinexus/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillService derives bills from recorded sales
type BillService struct {
	repo sales.SaleRepository
	opts serviceOptions
}

// NewBillService creates a new BillService
func NewBillService(repo sales.SaleRepository, opts ...Option) *BillService {
	o := newServiceOptions(opts)
	if o.billNumbers == nil {
		o.billNumbers = randomBillSuffix
	}
	return &BillService{repo: repo, opts: o}
}

// randomBillSuffix returns the first 8 hex chars of a random uuid, upper case
func randomBillSuffix() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// GenerateBillFromSales builds a bill for the requested period. A CUSTOM
// period without both dates is rejected before the store is queried.
func (s *BillService) GenerateBillFromSales(ctx context.Context, req GenerateBillRequest) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bill", "generate",
		telemetry.WithAttribute(telemetry.SpanAttrPeriod, req.Period),
	)
	defer span.End()

	period, err := domain.ParseTimePeriod(req.Period)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	start, err := ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	now := s.opts.clock()
	rng, err := domain.ResolvePeriod(period, start, end, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	list, err := s.repo.FindByDateRange(ctx, rng.WindowStart(), rng.WindowEnd())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load sales for bill: %w", err)
	}

	bill := domain.BuildBill(domain.BillRequest{
		BillNumber:  s.opts.billPrefix + s.opts.billNumbers(),
		GeneratedAt: now,
		Range:       rng,
		Customer: domain.CustomerFilter{
			CustomerID:   req.CustomerID,
			CustomerName: req.CustomerName,
		},
	}, list)

	s.opts.metrics.RecordBillGenerated(ctx, string(period), len(bill.Items))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBillNumber, bill.BillNumber,
		telemetry.SpanAttrSaleCount, bill.TotalTransactions,
	)
	s.opts.logger.Info("bill generated",
		zap.String("bill_number", bill.BillNumber),
		zap.String("period", bill.Period),
		zap.Int("transactions", bill.TotalTransactions),
		zap.String("grand_total", bill.GrandTotal.StringFixed(2)),
	)
	telemetry.SetOK(span)
	return toBillResponse(bill), nil
}

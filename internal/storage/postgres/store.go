// Package postgres provides TimescaleDB-backed persistence for the
// analytics pipeline's daily/shift/timeslot result tables, using pgxpool
// for connection pooling.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"restaurantops/internal/storage"
)

// Store is a storage.DatabaseClient backed by a pgxpool.Pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a store using the provided connection string and
// verifies connectivity before returning.
func NewStore(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close closes the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Pool exposes the underlying pgx pool for migrations or diagnostics.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

const insertDaily = `
INSERT INTO analytics.daily_operations (
	business_date, restaurant_code, total_sales, labor_cost, labor_percent,
	labor_hours, employee_count, net_profit, profit_margin, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (business_date, restaurant_code) DO UPDATE SET
	total_sales = EXCLUDED.total_sales,
	labor_cost = EXCLUDED.labor_cost,
	labor_percent = EXCLUDED.labor_percent,
	labor_hours = EXCLUDED.labor_hours,
	employee_count = EXCLUDED.employee_count,
	net_profit = EXCLUDED.net_profit,
	profit_margin = EXCLUDED.profit_margin,
	updated_at = now()
`

const insertShift = `
INSERT INTO analytics.shift_operations (
	business_date, restaurant_code, shift_name, sales, labor_cost,
	order_count, category_stats, manager, voids, cash_collected,
	tips_distributed, vendor_payouts, net_cash
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (business_date, restaurant_code, shift_name) DO UPDATE SET
	sales = EXCLUDED.sales,
	labor_cost = EXCLUDED.labor_cost,
	order_count = EXCLUDED.order_count,
	category_stats = EXCLUDED.category_stats,
	manager = EXCLUDED.manager,
	voids = EXCLUDED.voids,
	cash_collected = EXCLUDED.cash_collected,
	tips_distributed = EXCLUDED.tips_distributed,
	vendor_payouts = EXCLUDED.vendor_payouts,
	net_cash = EXCLUDED.net_cash
`

const insertTimeslot = `
INSERT INTO analytics.timeslot_results (
	business_date, restaurant_code, timeslot_index, timeslot_label,
	shift_name, orders, sales, labor_cost, efficiency_score, grade,
	pass_fail, category_stats
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (business_date, restaurant_code, timeslot_index, shift_name) DO UPDATE SET
	orders = EXCLUDED.orders,
	sales = EXCLUDED.sales,
	labor_cost = EXCLUDED.labor_cost,
	efficiency_score = EXCLUDED.efficiency_score,
	grade = EXCLUDED.grade,
	pass_fail = EXCLUDED.pass_fail,
	category_stats = EXCLUDED.category_stats
`

// WriteRun writes one run's daily/shift/timeslot rows inside a single
// transaction: begin, insert daily, insert two shifts, insert 64
// timeslots, commit. Any failure rolls back the whole transaction so no
// partial rows for (business_date, restaurant_code) remain, per spec.md
// §4.8 and §8's transaction-atomicity invariant.
func (s *Store) WriteRun(ctx context.Context, run storage.RunRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	d := run.Daily
	if _, err := tx.Exec(ctx, insertDaily,
		d.BusinessDate, d.RestaurantCode, d.TotalSales, d.LaborCost, d.LaborPercent,
		d.LaborHours, d.EmployeeCount, d.NetProfit, d.ProfitMargin,
	); err != nil {
		return fmt.Errorf("insert daily_operations: %w", err)
	}

	for _, sh := range run.Shifts {
		statsJSON, err := json.Marshal(sh.CategoryStats)
		if err != nil {
			return fmt.Errorf("marshal shift category_stats: %w", err)
		}
		if _, err := tx.Exec(ctx, insertShift,
			sh.BusinessDate, sh.RestaurantCode, sh.ShiftName, sh.Sales, sh.LaborCost,
			sh.OrderCount, statsJSON, sh.Manager, sh.Voids, sh.CashCollected,
			sh.TipsDistributed, sh.VendorPayouts, sh.NetCash,
		); err != nil {
			return fmt.Errorf("insert shift_operations: %w", err)
		}
	}

	for _, ts := range run.Timeslots {
		statsJSON, err := json.Marshal(ts.CategoryStats)
		if err != nil {
			return fmt.Errorf("marshal timeslot category_stats: %w", err)
		}
		if _, err := tx.Exec(ctx, insertTimeslot,
			ts.BusinessDate, ts.RestaurantCode, ts.TimeslotIndex, ts.TimeslotLabel,
			ts.ShiftName, ts.Orders, ts.Sales, ts.LaborCost, ts.EfficiencyScore,
			ts.Grade, ts.PassFail, statsJSON,
		); err != nil {
			return fmt.Errorf("insert timeslot_results: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

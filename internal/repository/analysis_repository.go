package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"forex-signal-bot/internal/domain"
	"forex-signal-bot/internal/signal"
)

const maxAnalysesPage = 500

// AnalysisRepository is the append-only history of completed analyses.
type AnalysisRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewAnalysisRepository(pool PgxPool, tracer trace.Tracer) *AnalysisRepository {
	return &AnalysisRepository{pool: pool, tracer: tracer}
}

func (r *AnalysisRepository) RunMigrations(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "analysis-repo.run-migrations")
	defer span.End()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id          UUID PRIMARY KEY,
			pair        TEXT NOT NULL,
			horizon     TEXT NOT NULL,
			direction   TEXT NOT NULL,
			score       SMALLINT NOT NULL,
			scores      JSONB NOT NULL,
			take_profit NUMERIC(20, 2) NOT NULL,
			stop_loss   NUMERIC(20, 2) NOT NULL,
			rsi         DOUBLE PRECISION NOT NULL,
			sma         DOUBLE PRECISION NOT NULL,
			ema         DOUBLE PRECISION NOT NULL,
			atr         DOUBLE PRECISION NOT NULL,
			price       DOUBLE PRECISION NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_pair_created ON analyses (pair, created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("run analyses migration: %w", err)
		}
	}
	return nil
}

func (r *AnalysisRepository) InsertAnalysis(ctx context.Context, a *domain.Analysis) error {
	if a == nil {
		return nil
	}

	ctx, span := r.tracer.Start(ctx, "analysis-repo.insert-analysis")
	defer span.End()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO analyses (id, pair, horizon, direction, score, scores, take_profit, stop_loss,
		                       rsi, sma, ema, atr, price, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		a.ID,
		a.Pair,
		string(a.Horizon),
		string(a.Result.Direction),
		int16(a.Result.Score),
		a.Result.Scores,
		a.Result.TakeProfit,
		a.Result.StopLoss,
		a.Readings.RSI,
		a.Readings.SMA,
		a.Readings.EMA,
		a.Readings.ATR,
		a.Readings.Price,
		a.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert analysis %s: %w", a.ID, err)
	}
	return nil
}

func (r *AnalysisRepository) ListAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]domain.Analysis, error) {
	ctx, span := r.tracer.Start(ctx, "analysis-repo.list-analyses")
	defer span.End()

	args := make([]any, 0, 3)
	var sb strings.Builder
	sb.WriteString(`SELECT id, pair, horizon, direction, score, scores, take_profit, stop_loss,
		       rsi, sma, ema, atr, price, created_at
		FROM analyses
		WHERE 1=1`)

	if filter.Pair != "" {
		args = append(args, strings.ToUpper(filter.Pair))
		sb.WriteString(fmt.Sprintf(" AND pair = $%d", len(args)))
	}
	if filter.Horizon != "" {
		args = append(args, string(filter.Horizon))
		sb.WriteString(fmt.Sprintf(" AND horizon = $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > maxAnalysesPage {
		limit = maxAnalysesPage
	}
	args = append(args, limit)
	sb.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args)))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Analysis, 0, limit)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAnalysis(row pgx.Row) (domain.Analysis, error) {
	var (
		a          domain.Analysis
		horizon    string
		direction  string
		score      int16
		scores     map[string]int
		takeProfit decimal.Decimal
		stopLoss   decimal.Decimal
		createdAt  time.Time
	)
	if err := row.Scan(
		&a.ID,
		&a.Pair,
		&horizon,
		&direction,
		&score,
		&scores,
		&takeProfit,
		&stopLoss,
		&a.Readings.RSI,
		&a.Readings.SMA,
		&a.Readings.EMA,
		&a.Readings.ATR,
		&a.Readings.Price,
		&createdAt,
	); err != nil {
		return domain.Analysis{}, fmt.Errorf("scan analysis: %w", err)
	}

	a.Horizon = domain.Horizon(horizon)
	a.Result = domain.SignalResult{
		Direction:  domain.Direction(direction),
		Score:      int(score),
		Scores:     scores,
		TakeProfit: takeProfit,
		StopLoss:   stopLoss,
	}
	a.Readings.BollingerUpper, a.Readings.BollingerLower = signal.BollingerBands(a.Readings.Price)
	a.CreatedAt = createdAt.UTC()
	return a, nil
}

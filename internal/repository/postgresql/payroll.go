package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/VANBAHIA/govrh/internal/domain/payroll"
	"github.com/VANBAHIA/govrh/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}

// ========== CONFIG ==========

func (r *payrollRepository) GetConfig(ctx context.Context, tenantID string) (payroll.PayrollConfig, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, rpps_percent, patronal_percent, fgts_percent,
			   loan_margin_percent, advance_percent,
			   income_tax_table, social_security_table,
			   created_at, updated_at
		FROM payroll_configs
		WHERE tenant_id = $1
	`

	var cfg payroll.PayrollConfig
	var incomeTaxJSON, socialSecurityJSON []byte
	err := q.QueryRow(ctx, query, tenantID).Scan(
		&cfg.ID, &cfg.TenantID, &cfg.RPPSPercent, &cfg.PatronalPercent, &cfg.FGTSPercent,
		&cfg.LoanMarginPercent, &cfg.AdvancePercent,
		&incomeTaxJSON, &socialSecurityJSON,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollConfig{}, payroll.ErrConfigNotFound
		}
		return payroll.PayrollConfig{}, fmt.Errorf("failed to get payroll config: %w", err)
	}

	if err := json.Unmarshal(incomeTaxJSON, &cfg.IncomeTaxTable); err != nil {
		return payroll.PayrollConfig{}, fmt.Errorf("failed to decode income tax table: %w", err)
	}
	if err := json.Unmarshal(socialSecurityJSON, &cfg.SocialSecurityTable); err != nil {
		return payroll.PayrollConfig{}, fmt.Errorf("failed to decode social security table: %w", err)
	}

	return cfg, nil
}

func (r *payrollRepository) UpsertConfig(ctx context.Context, cfg payroll.PayrollConfig) (payroll.PayrollConfig, error) {
	q := database.GetQuerier(ctx, r.db)

	incomeTaxJSON, err := json.Marshal(cfg.IncomeTaxTable)
	if err != nil {
		return payroll.PayrollConfig{}, fmt.Errorf("failed to encode income tax table: %w", err)
	}
	socialSecurityJSON, err := json.Marshal(cfg.SocialSecurityTable)
	if err != nil {
		return payroll.PayrollConfig{}, fmt.Errorf("failed to encode social security table: %w", err)
	}

	query := `
		INSERT INTO payroll_configs (
			tenant_id, rpps_percent, patronal_percent, fgts_percent,
			loan_margin_percent, advance_percent,
			income_tax_table, social_security_table
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id) DO UPDATE SET
			rpps_percent = EXCLUDED.rpps_percent,
			patronal_percent = EXCLUDED.patronal_percent,
			fgts_percent = EXCLUDED.fgts_percent,
			loan_margin_percent = EXCLUDED.loan_margin_percent,
			advance_percent = EXCLUDED.advance_percent,
			income_tax_table = EXCLUDED.income_tax_table,
			social_security_table = EXCLUDED.social_security_table,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	out := cfg
	err = q.QueryRow(ctx, query,
		cfg.TenantID, cfg.RPPSPercent, cfg.PatronalPercent, cfg.FGTSPercent,
		cfg.LoanMarginPercent, cfg.AdvancePercent,
		incomeTaxJSON, socialSecurityJSON,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return payroll.PayrollConfig{}, fmt.Errorf("failed to upsert payroll config: %w", err)
	}

	return out, nil
}

// ========== COMPONENTS ==========

func (r *payrollRepository) CreateComponent(ctx context.Context, component payroll.PayComponent) (payroll.PayComponent, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_components (tenant_id, code, name, type, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, tenant_id, code, name, type, active, created_at, updated_at
	`

	var c payroll.PayComponent
	err := q.QueryRow(ctx, query,
		component.TenantID, component.Code, component.Name, component.Type, component.Active,
	).Scan(
		&c.ID, &c.TenantID, &c.Code, &c.Name, &c.Type, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_pay_component_code") {
			return payroll.PayComponent{}, payroll.ErrComponentCodeExists
		}
		return payroll.PayComponent{}, fmt.Errorf("failed to create pay component: %w", err)
	}

	return c, nil
}

func (r *payrollRepository) ListComponents(ctx context.Context, tenantID string, activeOnly bool) ([]payroll.PayComponent, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, code, name, type, active, created_at, updated_at
		FROM pay_components
		WHERE tenant_id = $1
	`
	if activeOnly {
		query += ` AND active = true`
	}
	query += ` ORDER BY type ASC, code ASC`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay components: %w", err)
	}
	defer rows.Close()

	var components []payroll.PayComponent
	for rows.Next() {
		var c payroll.PayComponent
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Code, &c.Name, &c.Type, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pay component: %w", err)
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

func (r *payrollRepository) UpdateComponent(ctx context.Context, tenantID string, req payroll.UpdatePayComponentRequest) (payroll.PayComponent, error) {
	q := database.GetQuerier(ctx, r.db)

	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID, tenantID}
	argPos := 3

	if req.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *req.Name)
		argPos++
	}
	if req.Active != nil {
		setClauses = append(setClauses, fmt.Sprintf("active = $%d", argPos))
		args = append(args, *req.Active)
		argPos++
	}

	query := fmt.Sprintf(`
		UPDATE pay_components
		SET %s
		WHERE id = $1 AND tenant_id = $2
		RETURNING id, tenant_id, code, name, type, active, created_at, updated_at
	`, strings.Join(setClauses, ", "))

	var c payroll.PayComponent
	err := q.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.TenantID, &c.Code, &c.Name, &c.Type, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayComponent{}, payroll.ErrComponentNotFound
		}
		return payroll.PayComponent{}, fmt.Errorf("failed to update pay component: %w", err)
	}

	return c, nil
}

// ========== PERIODS ==========

const periodColumns = `id, tenant_id, competency, type, status,
	total_gross, total_deductions, total_net, employee_count,
	processed_at, closed_at, created_at, updated_at`

func scanPeriod(row pgx.Row) (payroll.PayPeriod, error) {
	var p payroll.PayPeriod
	err := row.Scan(
		&p.ID, &p.TenantID, &p.Competency, &p.Type, &p.Status,
		&p.TotalGross, &p.TotalDeductions, &p.TotalNet, &p.EmployeeCount,
		&p.ProcessedAt, &p.ClosedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *payrollRepository) GetPeriod(ctx context.Context, tenantID, competency string, periodType payroll.PeriodType) (payroll.PayPeriod, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + periodColumns + `
		FROM pay_periods
		WHERE tenant_id = $1 AND competency = $2 AND type = $3
	`

	p, err := scanPeriod(q.QueryRow(ctx, query, tenantID, competency, periodType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayPeriod{}, fmt.Errorf("failed to get pay period: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) ListPeriods(ctx context.Context, tenantID string, filter payroll.PeriodFilter) ([]payroll.PayPeriod, int64, error) {
	q := database.GetQuerier(ctx, r.db)

	where := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}
	argPos := 2

	if filter.Competency != nil {
		where = append(where, fmt.Sprintf("competency = $%d", argPos))
		args = append(args, *filter.Competency)
		argPos++
	}
	if filter.Type != nil {
		where = append(where, fmt.Sprintf("type = $%d", argPos))
		args = append(args, *filter.Type)
		argPos++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM pay_periods WHERE ` + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pay periods: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+periodColumns+`
		FROM pay_periods
		WHERE %s
		ORDER BY competency DESC, type ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pay periods: %w", err)
	}
	defer rows.Close()

	var periods []payroll.PayPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan pay period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, total, rows.Err()
}

func (r *payrollRepository) UpsertPeriodForProcessing(ctx context.Context, tenantID, competency string, periodType payroll.PeriodType) (payroll.PayPeriod, error) {
	q := database.GetQuerier(ctx, r.db)

	// The conditional update leaves CLOSED periods untouched: no row
	// comes back and the caller gets ErrPeriodClosed. The returned row
	// stays locked for the rest of the surrounding transaction, which
	// serializes concurrent processing runs on the same period.
	query := `
		INSERT INTO pay_periods (
			tenant_id, competency, type, status,
			total_gross, total_deductions, total_net, employee_count
		) VALUES ($1, $2, $3, 'IN_PROCESSING', 0, 0, 0, 0)
		ON CONFLICT (tenant_id, competency, type) DO UPDATE SET
			status = 'IN_PROCESSING',
			total_gross = 0,
			total_deductions = 0,
			total_net = 0,
			employee_count = 0,
			processed_at = NULL,
			updated_at = NOW()
		WHERE pay_periods.status <> 'CLOSED'
		RETURNING ` + periodColumns

	p, err := scanPeriod(q.QueryRow(ctx, query, tenantID, competency, periodType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayPeriod{}, payroll.ErrPeriodClosed
		}
		return payroll.PayPeriod{}, fmt.Errorf("failed to upsert pay period: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) FinalizePeriod(ctx context.Context, periodID string, totals payroll.PeriodTotals) (payroll.PayPeriod, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_periods
		SET status = 'PROCESSED',
			total_gross = $2,
			total_deductions = $3,
			total_net = $4,
			employee_count = $5,
			processed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + periodColumns

	p, err := scanPeriod(q.QueryRow(ctx, query, periodID, totals.Gross, totals.Deductions, totals.Net, totals.EmployeeCount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayPeriod{}, fmt.Errorf("failed to finalize pay period: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) ClosePeriod(ctx context.Context, periodID string) (payroll.PayPeriod, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_periods
		SET status = 'CLOSED', closed_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + periodColumns

	p, err := scanPeriod(q.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayPeriod{}, fmt.Errorf("failed to close pay period: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) ReopenPeriod(ctx context.Context, periodID string) (payroll.PayPeriod, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_periods
		SET status = 'PROCESSED', closed_at = NULL, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + periodColumns

	p, err := scanPeriod(q.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayPeriod{}, fmt.Errorf("failed to reopen pay period: %w", err)
	}
	return p, nil
}

// ========== PAYSLIP LINES ==========

func (r *payrollRepository) UpsertLine(ctx context.Context, line payroll.PayslipLine) (payroll.PayslipLine, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payslip_lines (
			pay_period_id, employee_id, gross_total, deduction_total, net_total,
			income_tax_base, social_security_base, fgts_base
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (pay_period_id, employee_id) DO UPDATE SET
			gross_total = EXCLUDED.gross_total,
			deduction_total = EXCLUDED.deduction_total,
			net_total = EXCLUDED.net_total,
			income_tax_base = EXCLUDED.income_tax_base,
			social_security_base = EXCLUDED.social_security_base,
			fgts_base = EXCLUDED.fgts_base,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	out := line
	err := q.QueryRow(ctx, query,
		line.PayPeriodID, line.EmployeeID, line.GrossTotal, line.DeductionTotal, line.NetTotal,
		line.IncomeTaxBase, line.SocialSecurityBase, line.FGTSBase,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return payroll.PayslipLine{}, fmt.Errorf("failed to upsert payslip line: %w", err)
	}

	return out, nil
}

func (r *payrollRepository) ReplaceLineItems(ctx context.Context, lineID string, items []payroll.PayslipItem) error {
	q := database.GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM payslip_items WHERE payslip_line_id = $1`, lineID); err != nil {
		return fmt.Errorf("failed to delete payslip items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(items))
	for i, item := range items {
		var referenceBase interface{}
		if item.ReferenceBase != nil {
			referenceBase = *item.ReferenceBase
		}
		rows[i] = []interface{}{uuid.NewString(), lineID, item.Kind, item.Amount, referenceBase, item.Description, i}
	}

	_, err := q.CopyFrom(ctx,
		pgx.Identifier{"payslip_items"},
		[]string{"id", "payslip_line_id", "kind", "amount", "reference_base", "description", "position"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payslip items: %w", err)
	}
	return nil
}

func (r *payrollRepository) ListLines(ctx context.Context, periodID string, page, limit int) ([]payroll.PayslipLine, int64, error) {
	q := database.GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payslip_lines WHERE pay_period_id = $1`, periodID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payslip lines: %w", err)
	}

	query := `
		SELECT l.id, l.pay_period_id, l.employee_id,
			   l.gross_total, l.deduction_total, l.net_total,
			   l.income_tax_base, l.social_security_base, l.fgts_base,
			   l.created_at, l.updated_at,
			   e.full_name, e.registration
		FROM payslip_lines l
		JOIN employees e ON e.id = l.employee_id
		WHERE l.pay_period_id = $1
		ORDER BY e.full_name ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, periodID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payslip lines: %w", err)
	}
	defer rows.Close()

	var lines []payroll.PayslipLine
	for rows.Next() {
		var l payroll.PayslipLine
		if err := rows.Scan(
			&l.ID, &l.PayPeriodID, &l.EmployeeID,
			&l.GrossTotal, &l.DeductionTotal, &l.NetTotal,
			&l.IncomeTaxBase, &l.SocialSecurityBase, &l.FGTSBase,
			&l.CreatedAt, &l.UpdatedAt,
			&l.EmployeeName, &l.EmployeeRegistration,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payslip line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, total, rows.Err()
}

func (r *payrollRepository) GetEmployeePayslip(ctx context.Context, tenantID, employeeID, competency string, periodType payroll.PeriodType) (payroll.PayslipLine, []payroll.PayslipItem, error) {
	q := database.GetQuerier(ctx, r.db)

	lineQuery := `
		SELECT l.id, l.pay_period_id, l.employee_id,
			   l.gross_total, l.deduction_total, l.net_total,
			   l.income_tax_base, l.social_security_base, l.fgts_base,
			   l.created_at, l.updated_at
		FROM payslip_lines l
		JOIN pay_periods p ON p.id = l.pay_period_id
		WHERE p.tenant_id = $1 AND p.competency = $2 AND p.type = $3 AND l.employee_id = $4
	`

	var line payroll.PayslipLine
	err := q.QueryRow(ctx, lineQuery, tenantID, competency, periodType, employeeID).Scan(
		&line.ID, &line.PayPeriodID, &line.EmployeeID,
		&line.GrossTotal, &line.DeductionTotal, &line.NetTotal,
		&line.IncomeTaxBase, &line.SocialSecurityBase, &line.FGTSBase,
		&line.CreatedAt, &line.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayslipLine{}, nil, payroll.ErrPayslipNotFound
		}
		return payroll.PayslipLine{}, nil, fmt.Errorf("failed to get payslip line: %w", err)
	}

	itemsQuery := `
		SELECT id, payslip_line_id, kind, amount, reference_base, description
		FROM payslip_items
		WHERE payslip_line_id = $1
		ORDER BY position ASC
	`

	rows, err := q.Query(ctx, itemsQuery, line.ID)
	if err != nil {
		return payroll.PayslipLine{}, nil, fmt.Errorf("failed to list payslip items: %w", err)
	}
	defer rows.Close()

	var items []payroll.PayslipItem
	for rows.Next() {
		var item payroll.PayslipItem
		if err := rows.Scan(&item.ID, &item.PayslipLineID, &item.Kind, &item.Amount, &item.ReferenceBase, &item.Description); err != nil {
			return payroll.PayslipLine{}, nil, fmt.Errorf("failed to scan payslip item: %w", err)
		}
		items = append(items, item)
	}
	return line, items, rows.Err()
}

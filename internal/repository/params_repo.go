package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parachute_control/internal/chute"
)

type ParamsSQLite struct {
	db *sql.DB
}

func NewParamsSQLite(db *sql.DB) *ParamsSQLite {
	return &ParamsSQLite{db: db}
}

var _ ParamsRepo = (*ParamsSQLite)(nil)

const (
	chuteParamsRowID = 1

	upsertParamsSQL = `
		INSERT INTO chute_params (id, enabled, trigger_type, servo_on_pwm, servo_off_pwm,
			alt_min_m, alt_max_m, delay_ms, auto_enabled,
			roll_margin_cd, pitch_margin_cd, sink_rate_ms, alt_thresh_m, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			enabled=excluded.enabled,
			trigger_type=excluded.trigger_type,
			servo_on_pwm=excluded.servo_on_pwm,
			servo_off_pwm=excluded.servo_off_pwm,
			alt_min_m=excluded.alt_min_m,
			alt_max_m=excluded.alt_max_m,
			delay_ms=excluded.delay_ms,
			auto_enabled=excluded.auto_enabled,
			roll_margin_cd=excluded.roll_margin_cd,
			pitch_margin_cd=excluded.pitch_margin_cd,
			sink_rate_ms=excluded.sink_rate_ms,
			alt_thresh_m=excluded.alt_thresh_m,
			updated_at=excluded.updated_at
	`

	selectParamsSQL = `
		SELECT enabled, trigger_type, servo_on_pwm, servo_off_pwm,
			alt_min_m, alt_max_m, delay_ms, auto_enabled,
			roll_margin_cd, pitch_margin_cd, sink_rate_ms, alt_thresh_m
		FROM chute_params WHERE id=?
	`
)

// Save upserts the single chute_params row (id always 1).
func (r *ParamsSQLite) Save(ctx context.Context, p chute.Params) error {
	_, err := r.db.ExecContext(ctx, upsertParamsSQL,
		chuteParamsRowID,
		p.Enabled,
		int(p.Trigger),
		p.ServoOnPWM,
		p.ServoOffPWM,
		p.AltMinM,
		p.AltMaxM,
		p.DelayMS,
		p.AutoEnabled,
		p.RollMarginCd,
		p.PitchMarginCd,
		p.SinkRateMS,
		p.AltThreshM,
		time.Now().UTC(),
	)
	return err
}

// Load fetches the chute_params row. found is false when the service has
// never persisted parameters (first boot).
func (r *ParamsSQLite) Load(ctx context.Context) (chute.Params, bool, error) {
	row := r.db.QueryRowContext(ctx, selectParamsSQL, chuteParamsRowID)

	var p chute.Params
	var triggerRaw int
	if err := row.Scan(
		&p.Enabled,
		&triggerRaw,
		&p.ServoOnPWM,
		&p.ServoOffPWM,
		&p.AltMinM,
		&p.AltMaxM,
		&p.DelayMS,
		&p.AutoEnabled,
		&p.RollMarginCd,
		&p.PitchMarginCd,
		&p.SinkRateMS,
		&p.AltThreshM,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return chute.Params{}, false, nil
		}
		return chute.Params{}, false, err
	}
	p.Trigger = chute.TriggerFromParam(triggerRaw)

	return p, true, nil
}

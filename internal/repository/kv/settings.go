package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"garagepro/internal/domain"
	"garagepro/internal/domain/notifications"
)

// SettingsRepo implements repository.SettingsRepository. Only the known
// settings keys can be read or written.
type SettingsRepo struct {
	s *Store
}

func knownKey(key string) bool {
	if key == domain.SettingsReportSchedule {
		return true
	}
	for _, k := range domain.OpaqueSettingsKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the stored blob, or nil when nothing was saved yet
func (r *SettingsRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if !knownKey(key) {
		return nil, domain.NotFound("settings", key)
	}
	return r.s.records.Get(ctx, key)
}

// Set stores a JSON object blob as is
func (r *SettingsRepo) Set(ctx context.Context, key string, value []byte) error {
	if !knownKey(key) {
		return domain.NotFound("settings", key)
	}
	if key == domain.SettingsReportSchedule {
		var sched domain.ReportSchedule
		if err := json.Unmarshal(value, &sched); err != nil {
			return domain.Invalid("reportSchedule", "Settings must be a JSON object")
		}
		return r.SetReportSchedule(ctx, sched)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(value, &obj); err != nil {
		return domain.Invalid(key, "Settings must be a JSON object")
	}
	return r.s.records.Set(ctx, key, value)
}

func (r *SettingsRepo) GetReportSchedule(ctx context.Context) (domain.ReportSchedule, error) {
	raw, err := r.s.records.Get(ctx, domain.SettingsReportSchedule)
	if err != nil {
		return domain.ReportSchedule{}, err
	}
	if len(raw) == 0 {
		return domain.DefaultReportSchedule, nil
	}
	var sched domain.ReportSchedule
	if err := json.Unmarshal(raw, &sched); err != nil {
		return domain.ReportSchedule{}, fmt.Errorf("failed to decode report schedule: %w", err)
	}
	return sched, nil
}

// SetReportSchedule validates the delivery time and, when enabled, the phone number
func (r *SettingsRepo) SetReportSchedule(ctx context.Context, sched domain.ReportSchedule) error {
	var errs domain.ValidationErrors
	if _, _, err := sched.Clock(); err != nil {
		errs = append(errs, domain.Invalid("time", "Time must be in HH:MM format")...)
	}
	if sched.Enabled {
		if err := notifications.ValidatePhone(sched.PhoneNumber); err != nil {
			errs = append(errs, domain.Invalid("phoneNumber", "Phone number must have at least 10 digits")...)
		}
	}
	if len(errs) > 0 {
		return errs
	}

	raw, err := json.Marshal(sched)
	if err != nil {
		return err
	}
	return r.s.records.Set(ctx, domain.SettingsReportSchedule, raw)
}

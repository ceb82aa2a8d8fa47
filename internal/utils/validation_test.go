package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
)

func TestValidateWorkplaceSchedule(t *testing.T) {
	tests := []struct {
		name    string
		ws      domain.WorkplaceSchedule
		wantErr bool
	}{
		{name: "empty", ws: domain.WorkplaceSchedule{}},
		{name: "valid", ws: domain.WorkplaceSchedule{"Nodal": {"1": {"shift1": "Ali"}, "31": {"shift3": "Sara"}}}},
		{name: "empty workplace", ws: domain.WorkplaceSchedule{"Nodal": {}}},
		{name: "unknown workplace", ws: domain.WorkplaceSchedule{"Basement": {}}, wantErr: true},
		{name: "unknown shift", ws: domain.WorkplaceSchedule{"Nodal": {"1": {"shift4": "Ali"}}}, wantErr: true},
		{name: "day zero", ws: domain.WorkplaceSchedule{"Nodal": {"0": {}}}, wantErr: true},
		{name: "day 32", ws: domain.WorkplaceSchedule{"Nodal": {"32": {}}}, wantErr: true},
		{name: "padded day", ws: domain.WorkplaceSchedule{"Nodal": {"01": {}}}, wantErr: true},
		{name: "non numeric day", ws: domain.WorkplaceSchedule{"Nodal": {"first": {}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkplaceSchedule(tt.ws, domain.DefaultWorkplaces, domain.DefaultShifts)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEngineers(t *testing.T) {
	tests := []struct {
		name      string
		engineers []domain.Engineer
		wantErr   bool
	}{
		{name: "valid", engineers: []domain.Engineer{
			{Name: "Ali", Workplaces: []string{"Nodal"}, Limitations: map[string][]string{"3": {"shift2"}}},
		}},
		{name: "empty name", engineers: []domain.Engineer{{Name: ""}}, wantErr: true},
		{name: "duplicate", engineers: []domain.Engineer{{Name: "Ali"}, {Name: "Ali"}}, wantErr: true},
		{name: "unknown workplace", engineers: []domain.Engineer{{Name: "Ali", Workplaces: []string{"Basement"}}}, wantErr: true},
		{name: "bad limitation day", engineers: []domain.Engineer{{Name: "Ali", Limitations: map[string][]string{"x": {"shift1"}}}}, wantErr: true},
		{name: "bad limitation shift", engineers: []domain.Engineer{{Name: "Ali", Limitations: map[string][]string{"1": {"night"}}}}, wantErr: true},
		{name: "min above max", engineers: []domain.Engineer{{Name: "Ali", MinShifts: 20, MaxShifts: 5}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEngineers(tt.engineers, domain.DefaultWorkplaces, domain.DefaultShifts)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package notification

import "testing"

func intPtr(v int) *int { return &v }

func TestRuleState(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		want string
	}{
		{"inactive", Rule{IsActive: false}, StateInactive},
		{"armed default", Rule{IsActive: true}, StateArmed},
		{"send_once unfired", Rule{IsActive: true, SendOnce: true}, StateArmed},
		{"send_once fired", Rule{IsActive: true, SendOnce: true, ExecutionCount: 1}, StateExhausted},
		{"repeat under cap", Rule{IsActive: true, SendRepeatedly: true, MaxRepeats: intPtr(3), ExecutionCount: 2}, StateArmed},
		{"repeat at cap", Rule{IsActive: true, SendRepeatedly: true, MaxRepeats: intPtr(3), ExecutionCount: 3}, StateExhausted},
		{"repeat uncapped", Rule{IsActive: true, SendRepeatedly: true, ExecutionCount: 100}, StateArmed},
		{"send_once wins over repeat", Rule{IsActive: true, SendOnce: true, SendRepeatedly: true,
			MaxRepeats: intPtr(5), ExecutionCount: 1}, StateExhausted},
		{"inactive wins over exhausted", Rule{IsActive: false, SendOnce: true, ExecutionCount: 1}, StateInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.State(); got != tt.want {
				t.Errorf("State() = %q, want %q", got, tt.want)
			}
		})
	}
}

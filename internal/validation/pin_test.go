package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePin(t *testing.T) {
	tests := []struct {
		name    string
		pin     string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid pin",
			pin:     "482913",
			wantErr: false,
		},
		{
			name:    "valid pin - leading zero",
			pin:     "082913",
			wantErr: false,
		},
		{
			name:    "valid pin - near-sequence",
			pin:     "123457",
			wantErr: false,
		},
		{
			name:    "invalid - empty",
			pin:     "",
			wantErr: true,
			errMsg:  "pin cannot be empty",
		},
		{
			name:    "invalid - too short",
			pin:     "12345",
			wantErr: true,
			errMsg:  "must be exactly 6 digits",
		},
		{
			name:    "invalid - too long",
			pin:     "1234567",
			wantErr: true,
			errMsg:  "must be exactly 6 digits",
		},
		{
			name:    "invalid - letters",
			pin:     "12a456",
			wantErr: true,
			errMsg:  "must be exactly 6 digits",
		},
		{
			name:    "invalid - unicode digits",
			pin:     "１２３４５６",
			wantErr: true,
			errMsg:  "must be exactly 6 digits",
		},
		{
			name:    "invalid - repeated digits",
			pin:     "111111",
			wantErr: true,
			errMsg:  "too easy to guess",
		},
		{
			name:    "invalid - ascending run",
			pin:     "123456",
			wantErr: true,
			errMsg:  "too easy to guess",
		},
		{
			name:    "invalid - descending run",
			pin:     "654321",
			wantErr: true,
			errMsg:  "too easy to guess",
		},
		{
			name:    "invalid - wraparound run",
			pin:     "890123",
			wantErr: true,
			errMsg:  "too easy to guess",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePin(tt.pin)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// Каждое значение blocklist отклоняется целиком
func TestValidatePin_EveryBlockedValue(t *testing.T) {
	blocked := BlockedPins()
	require.NotEmpty(t, blocked)

	for _, pin := range blocked {
		assert.True(t, PinPattern.MatchString(pin), "blocklist должен содержать только 6-значные PIN: %q", pin)
		assert.True(t, IsBlockedPin(pin))
		assert.Error(t, ValidatePin(pin), "pin %q must be rejected", pin)
	}
}

// Property-style проверка: ValidatePin(s) == true <=> 6 цифр и не в blocklist
func TestValidatePin_Property(t *testing.T) {
	// Все повторяющиеся цифры заблокированы
	for d := 0; d <= 9; d++ {
		pin := fmt.Sprintf("%d%d%d%d%d%d", d, d, d, d, d, d)
		assert.Error(t, ValidatePin(pin), "pin %q", pin)
	}

	// Возрастающие и убывающие ряды с любым стартом заблокированы
	for start := 0; start <= 9; start++ {
		asc := make([]byte, 6)
		desc := make([]byte, 6)
		for i := 0; i < 6; i++ {
			asc[i] = byte('0' + (start+i)%10)
			desc[i] = byte('0' + (start-i+10)%10)
		}
		assert.Error(t, ValidatePin(string(asc)), "pin %q", asc)
		assert.Error(t, ValidatePin(string(desc)), "pin %q", desc)
	}

	// Выборка обычных 6-значных PIN проходит
	for _, pin := range []string{"482913", "205817", "731904", "118227", "990124"} {
		assert.NoError(t, ValidatePin(pin), "pin %q", pin)
	}
}

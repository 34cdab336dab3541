package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmphasize_NineDigitNumbers(t *testing.T) {
	content := "Sub-account 987654321 serves 12 Main St"
	assert.Equal(t, "Sub-account <b>987654321</b> serves 12 Main St", EmphasizeAccountNumbers(content))
}

func TestEmphasize_EveryNineDigitOccurrence(t *testing.T) {
	content := "987654321 appears here and 123456780 there"
	enhanced := EmphasizeAccountNumbers(content)
	assert.Equal(t, "<b>987654321</b> appears here and <b>123456780</b> there", enhanced)
}

func TestEmphasize_ShorterAndLongerRunsUntouched(t *testing.T) {
	content := "order 12345678 confirmation 1234567890"
	assert.Equal(t, content, EmphasizeAccountNumbers(content))
}

func TestEmphasize_LabeledAccountNumber(t *testing.T) {
	content := "Account #: ABC-123456"
	assert.Equal(t, "Account #: <b>ABC-123456</b>", EmphasizeAccountNumbers(content))
}

func TestEmphasize_LabeledVariants(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Account Number: XY99", "Account Number: <b>XY99</b>"},
		{"account no. 445566", "account no. <b>445566</b>"},
		{"ACCOUNT #: 77A-2", "ACCOUNT #: <b>77A-2</b>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EmphasizeAccountNumbers(tt.input))
	}
}

func TestEmphasize_ExcludesDatesZipsPhones(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"date", "Account #: 12/31/2024"},
		{"zip", "Account #: 90210"},
		{"zip plus four", "Account #: 90210-1234"},
		{"phone", "Account #: 555-123-4567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.input, EmphasizeAccountNumbers(tt.input))
		})
	}
}

func TestEmphasize_Idempotent(t *testing.T) {
	content := "Account #: ABC-12 and sub-account 987654321"
	once := EmphasizeAccountNumbers(content)
	twice := EmphasizeAccountNumbers(once)
	assert.Equal(t, once, twice)
}

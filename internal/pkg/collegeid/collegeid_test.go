package collegeid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edustack/portal/internal/pkg/apperrors"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "CIDA001", Format(1))
	assert.Equal(t, "CIDA042", Format(42))
	assert.Equal(t, "CIDA123", Format(123))
	assert.Equal(t, "CIDA1234", Format(1234))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"prefixed", "CIDA001", 1, false},
		{"prefixed lowercase", "cida007", 7, false},
		{"prefixed with spaces", "  CIDA012 ", 12, false},
		{"bare integer", "3", 3, false},
		{"empty", "", 0, true},
		{"garbage", "COLLEGE-1", 0, true},
		{"prefix only", "CIDA", 0, true},
		{"zero", "CIDA000", 0, true},
		{"negative", "-5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidCollegeIDFormat)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	id, err := Parse(Format(57))
	assert.NoError(t, err)
	assert.Equal(t, int64(57), id)
}

package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseROCDate(t *testing.T) {
	jan9 := time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{name: "slash separators", input: "115/01/09", want: jan9, ok: true},
		{name: "dash separators", input: "115-01-09", want: jan9, ok: true},
		{name: "dot separators", input: "115.01.09", want: jan9, ok: true},
		{name: "era marker form", input: "民國115年01月09日", want: jan9, ok: true},
		{name: "simplified era marker", input: "民国115年1月9日", want: jan9, ok: true},
		{name: "embedded in a sentence", input: "資料日期：115/01/09", want: jan9, ok: true},
		{name: "single digit month and day", input: "115/1/9", want: jan9, ok: true},
		{name: "roc year one", input: "1/01/01", want: time.Date(1912, time.January, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "empty string", input: ""},
		{name: "whitespace only", input: "   "},
		{name: "no digits", input: "持股明細"},
		{name: "gregorian-looking text without triple", input: "20260109"},
		{name: "gregorian slash date is not a roc fragment", input: "2026/01/09"},
		{name: "gregorian date in a sentence", input: "資料日期：2026/01/09"},
		{name: "gregorian dash date", input: "2026-01-09"},
		{name: "triple glued to trailing digits", input: "115/01/091"},
		{name: "roc date after a gregorian one", input: "列印 2026/01/09，資料日期 115/01/09", want: jan9, ok: true},
		{name: "month out of range", input: "115/13/01"},
		{name: "day out of range", input: "115/01/32"},
		{name: "impossible calendar day", input: "115/02/30"},
		{name: "zero month", input: "115/0/09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseROCDate(tt.input)
			if !tt.ok {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseROCDateSeparatorEquivalence(t *testing.T) {
	variants := []string{"115/01/09", "115-01-09", "115.01.09", "民國115年01月09日"}

	var dates []time.Time
	for _, v := range variants {
		date, ok := ParseROCDate(v)
		require.True(t, ok, "variant %q", v)
		dates = append(dates, date)
	}
	for _, date := range dates[1:] {
		assert.Equal(t, dates[0], date)
	}
	assert.Equal(t, "20260109", dates[0].Format("20060102"))
}

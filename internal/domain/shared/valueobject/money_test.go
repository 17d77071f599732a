package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" eur ")
	require.NoError(t, err)
	assert.Equal(t, EUR, c)

	_, err = ParseCurrency("")
	assert.Error(t, err)

	_, err = ParseCurrency("XYZW")
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	price := MustMoney(decimal.RequireFromString("10.25"), USD)

	line := price.MultiplyByInt(3)
	assert.True(t, line.Amount().Equal(decimal.RequireFromString("30.75")))

	sum, err := line.Add(price)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.RequireFromString("41")))

	_, err = price.Add(Zero(EUR))
	assert.Error(t, err)

	assert.True(t, Zero(USD).IsZero())

	parsed, err := NewMoneyFromString("10.250", USD)
	require.NoError(t, err)
	assert.True(t, parsed.Amount().Equal(price.Amount()))

	_, err = NewMoneyFromString("ten", USD)
	assert.Error(t, err)
}

func TestMoney_Scale(t *testing.T) {
	assert.Equal(t, int32(2), Zero(USD).Scale())
	assert.Equal(t, int32(0), Zero(JPY).Scale())
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "5.00 USD", MustMoney(decimal.NewFromInt(5), USD).String())
	assert.Equal(t, "1200 JPY", MustMoney(decimal.NewFromInt(1200), JPY).String())
}

func TestMoney_Format(t *testing.T) {
	out := MustMoney(decimal.RequireFromString("12.5"), USD).Format(language.English)
	assert.Contains(t, out, "$")
	assert.Contains(t, out, "12.50")

	large := MustMoney(decimal.RequireFromString("12345678901234567.89"), USD).Format(language.English)
	assert.Contains(t, large, "12,345,678,901,234,567.89")

	assert.Contains(t, MustMoney(decimal.RequireFromString("1234.5"), EUR).Format(language.German), "1.234,50")
	assert.Contains(t, MustMoney(decimal.RequireFromString("-3"), USD).Format(language.English), "-3.00")
	assert.Contains(t, MustMoney(decimal.RequireFromString("1200.4"), JPY).Format(language.English), "1,200")
}

func TestMoney_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(MustMoney(decimal.RequireFromString("3.1"), USD))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"3.10","currency":"USD"}`, string(data))
}

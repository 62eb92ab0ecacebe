package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"juntacomunal/internal/common"
)

func TestResolveFine(t *testing.T) {
	ten := decimal.RequireFromString("10.50")
	stored := decimal.NewNullDecimal(decimal.RequireFromString("5"))

	cases := []struct {
		name          string
		flag          common.Optional[bool]
		amount        common.Optional[decimal.Decimal]
		currentFlag   bool
		currentAmount decimal.NullDecimal
		wantFlag      bool
		wantAmount    decimal.NullDecimal
		wantErr       string
	}{
		{
			name:          "nothing sent keeps stored values",
			currentFlag:   true,
			currentAmount: stored,
			wantFlag:      true,
			wantAmount:    stored,
		},
		{
			name:    "amount without flag",
			amount:  common.Some(ten),
			wantErr: "multaGenerada es obligatoria cuando se envia montoMulta.",
		},
		{
			name:    "null flag",
			flag:    common.Null[bool](),
			wantErr: "multaGenerada es obligatorio.",
		},
		{
			name:          "flag false clears amount",
			flag:          common.Some(false),
			currentFlag:   true,
			currentAmount: stored,
		},
		{
			name:   "flag false with explicit null amount",
			flag:   common.Some(false),
			amount: common.Null[decimal.Decimal](),
		},
		{
			name:    "flag false with amount",
			flag:    common.Some(false),
			amount:  common.Some(ten),
			wantErr: "montoMulta debe ser null cuando multaGenerada es false.",
		},
		{
			name:       "flag true with amount",
			flag:       common.Some(true),
			amount:     common.Some(ten),
			wantFlag:   true,
			wantAmount: decimal.NewNullDecimal(ten),
		},
		{
			name:          "flag true keeps stored amount",
			flag:          common.Some(true),
			currentAmount: stored,
			wantFlag:      true,
			wantAmount:    stored,
		},
		{
			name:    "flag true without any amount",
			flag:    common.Some(true),
			wantErr: "montoMulta es obligatorio cuando multaGenerada es true.",
		},
		{
			name:          "flag true with amount cleared",
			flag:          common.Some(true),
			amount:        common.Null[decimal.Decimal](),
			currentAmount: stored,
			wantErr:       "montoMulta es obligatorio cuando multaGenerada es true.",
		},
		{
			name:    "negative amount",
			flag:    common.Some(true),
			amount:  common.Some(decimal.RequireFromString("-1")),
			wantErr: "montoMulta no puede ser menor que 0.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flag, amount, err := ResolveFine(tc.flag, tc.amount, tc.currentFlag, tc.currentAmount)
			if tc.wantErr != "" {
				assert.EqualError(t, err, tc.wantErr)
				assert.True(t, common.IsKind(err, common.KindBadInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantFlag, flag)
			assert.Equal(t, tc.wantAmount.Valid, amount.Valid)
			if tc.wantAmount.Valid {
				assert.True(t, tc.wantAmount.Decimal.Equal(amount.Decimal))
			}
		})
	}
}

func TestCheckPersonasExtra(t *testing.T) {
	assert.NoError(t, checkPersonasExtra(0))
	assert.NoError(t, checkPersonasExtra(20))
	assert.EqualError(t, checkPersonasExtra(21), "cantPersonasExtra debe estar entre 0 y 20.")
	assert.Error(t, checkPersonasExtra(-1))
}

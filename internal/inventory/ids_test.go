package inventory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	for _, raw := range []string{"1", " 42 ", "9007199254740993"} {
		_, err := ParseID(raw)
		assert.NoError(t, err, raw)
	}
	for _, raw := range []string{"", "0", "-3", "abc", "1.5", "0x10"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidID, raw)
	}
}

func TestLooseID(t *testing.T) {
	cases := map[string]int64{
		`3`:     3,
		`"3"`:   3,
		`" 7 "`: 7,
		`3.0`:   3,
		`null`:  0,
		`""`:    0,
		`0`:     0,
	}
	for in, want := range cases {
		var id LooseID
		require.NoError(t, json.Unmarshal([]byte(in), &id), in)
		assert.EqualValues(t, want, id, in)
	}

	for _, in := range []string{`"abc"`, `1.5`, `true`, `{}`} {
		var id LooseID
		err := json.Unmarshal([]byte(in), &id)
		assert.ErrorIs(t, err, ErrInvalidID, in)
	}
}

func TestLooseID_AbsentFieldIsZero(t *testing.T) {
	var req associationReq
	require.NoError(t, json.Unmarshal([]byte(`{"productId": 2}`), &req))
	assert.EqualValues(t, 2, req.ProductID)
	assert.EqualValues(t, 0, req.SupplierID)
}

func TestLoosePrice(t *testing.T) {
	cases := map[string]LoosePrice{
		`4500`:      4500,
		`4500.5`:    4500.5,
		`"4500.00"`: 4500,
		`" 19.90 "`: 19.90,
		`null`:      0,
		`""`:        0,
	}
	for in, want := range cases {
		var p LoosePrice
		require.NoError(t, json.Unmarshal([]byte(in), &p), in)
		assert.Equal(t, want, p, in)
	}

	for _, in := range []string{`"caro"`, `"NaN"`, `"Inf"`, `true`, `[]`} {
		var p LoosePrice
		err := json.Unmarshal([]byte(in), &p)
		assert.ErrorIs(t, err, ErrInvalidPrice, in)
	}
}

func TestLoosePrice_MarshalsAsNumber(t *testing.T) {
	raw, err := json.Marshal(Product{ID: 1, Nome: "Mouse", Preco: 19.9, CodigoBarras: "1"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"preco":19.9`)
}

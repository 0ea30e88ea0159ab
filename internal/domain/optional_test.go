package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_PresentEmptyIsNotAbsent(t *testing.T) {
	empty := Present("")
	assert.True(t, empty.IsPresent())
	assert.False(t, Absent[string]().IsPresent())
	assert.NotEqual(t, Absent[string](), empty)
}

func TestOptional_JSON(t *testing.T) {
	type payload struct {
		Phone   Optional[string] `json:"phone"`
		Company Optional[string] `json:"company"`
	}

	out, err := json.Marshal(payload{Phone: Present("+1 555"), Company: Absent[string]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"phone":"+1 555","company":null}`, string(out))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"phone":"","company":null}`), &decoded))
	v, ok := decoded.Phone.Get()
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.False(t, decoded.Company.IsPresent())

	var missing payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &missing))
	assert.False(t, missing.Phone.IsPresent())
}

func TestOptional_Ptr(t *testing.T) {
	assert.Nil(t, Absent[string]().Ptr())

	p := Present("Acme").Ptr()
	require.NotNil(t, p)
	assert.Equal(t, "Acme", *p)

	assert.Equal(t, Present("x"), FromPtr(p2("x")))
	assert.Equal(t, Absent[string](), FromPtr[string](nil))
	assert.Equal(t, "fallback", Absent[string]().OrElse("fallback"))
}

func p2(s string) *string { return &s }

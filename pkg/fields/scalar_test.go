package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apperrors"
)

func TestScalarSetValue(t *testing.T) {
	t.Run("string accepts string", func(t *testing.T) {
		f := NewString("name", "the user's name")

		require.NoError(t, f.SetValue("Timo"))
		assert.Equal(t, "Timo", f.Value())
	})

	t.Run("string rejects non-string", func(t *testing.T) {
		f := NewString("name", "the user's name")

		err := f.SetValue(42)

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)
		assert.Nil(t, f.Value())
	})

	t.Run("integer accepts json float64", func(t *testing.T) {
		f := NewInt("count", "a count")

		// json.Unmarshal decodes numbers into float64
		require.NoError(t, f.SetValue(float64(8080)))
		assert.Equal(t, 8080, f.Value())
	})

	t.Run("integer rejects fractional", func(t *testing.T) {
		f := NewInt("count", "a count")

		err := f.SetValue(3.5)

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Nil(t, f.Value())
	})

	t.Run("rejects null", func(t *testing.T) {
		f := NewString("name", "the user's name")

		err := f.SetValue(nil)

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("bool rejects string", func(t *testing.T) {
		f := NewBool("enabled", "toggle")

		err := f.SetValue("true")

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("idempotent for the same accepted value", func(t *testing.T) {
		f := NewString("name", "the user's name")

		require.NoError(t, f.SetValue("Timo"))
		require.NoError(t, f.SetValue("Timo"))
		assert.Equal(t, "Timo", f.Value())
	})
}

func TestPortFieldRejectsOutOfRange(t *testing.T) {
	f := NewPort("portField", "server port")

	err := f.SetValue(70000)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "portField", verr.Field)
	assert.Equal(t, 70000, verr.Value)
	assert.Nil(t, f.Value(), "failed validation must leave the value unchanged")

	require.NoError(t, f.SetValue(8080))
	assert.Equal(t, 8080, f.Value())

	err = f.SetValue(-1)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 8080, f.Value(), "a later rejection keeps the prior committed value")
}

func TestScalarValidators(t *testing.T) {
	tests := []struct {
		name   string
		field  *Scalar
		accept []any
		reject []any
	}{
		{
			name:   "ipv4",
			field:  NewIPv4("ip", "device address"),
			accept: []any{"192.168.0.1", "10.0.0.254"},
			reject: []any{"256.0.0.1", "::1", "not-an-ip", ""},
		},
		{
			name:   "ipv6",
			field:  NewIPv6("ip", "device address"),
			accept: []any{"::1", "2001:db8::68"},
			reject: []any{"192.168.0.1", "zz::1"},
		},
		{
			name:   "ip either family",
			field:  NewIP("ip", "device address"),
			accept: []any{"192.168.0.1", "::1"},
			reject: []any{"999.1.1.1", "hostname"},
		},
		{
			name:   "email",
			field:  NewEmail("mail", "contact address"),
			accept: []any{"ops@example.com", "a.b@c.io"},
			reject: []any{"nodomain", "a@b", "two@@example.com"},
		},
		{
			name:   "url permissive",
			field:  NewURL("url", "server url"),
			accept: []any{"http://y", "opc.tcp://192.168.2.1:48010", "anything"},
			reject: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range tt.accept {
				assert.NoError(t, tt.field.SetValue(v), "should accept %v", v)
			}
			for _, v := range tt.reject {
				err := tt.field.SetValue(v)
				var verr *apperrors.ValidationError
				assert.ErrorAs(t, err, &verr, "should reject %v", v)
			}
		})
	}
}

func TestScalarDescribe(t *testing.T) {
	f := NewString("nameField", "The name of the connector").WithValue("OPC UA 1")

	desc := f.Describe()
	assert.Equal(t, "nameField", desc["variable_name"])
	assert.Equal(t, "The name of the connector", desc["description"])
	assert.Equal(t, "OPC UA 1", desc["value"])

	f.SetInvisible()
	assert.Empty(t, f.Describe())
}

func TestScalarClone(t *testing.T) {
	f := NewPort("portField", "server port")
	require.NoError(t, f.SetValue(4840))

	clone := f.Clone().(*Scalar)
	require.NoError(t, clone.SetValue(48010))

	assert.Equal(t, 4840, f.Value(), "mutating a clone must not touch the original")
	assert.Equal(t, 48010, clone.Value())

	err := clone.SetValue(70000)
	assert.Error(t, err, "clones keep the validation strategy")
}

func TestEnumSetValue(t *testing.T) {
	f := NewEnum("accessMode", "how tags are accessed",
		EnumOption{Key: "Read", Value: "r"},
		EnumOption{Key: "Read & Write", Value: "rw"},
	)

	require.NoError(t, f.SetValue("Read & Write"))
	assert.Equal(t, "Read & Write", f.Key())
	assert.Equal(t, "rw", f.Value())

	err := f.SetValue("Write Only")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "accessMode", verr.Field)
	assert.Equal(t, "Read & Write", f.Key(), "rejected selection must leave the current one")

	err = f.SetValue(7)
	require.ErrorAs(t, err, &verr)
}

func TestEnumKeysOrdered(t *testing.T) {
	f := NewEnum("cycle", "acquisition cycle",
		EnumOption{Key: "10ms", Value: 10},
		EnumOption{Key: "100ms", Value: 100},
		EnumOption{Key: "1s", Value: 1000},
	)

	assert.Equal(t, []string{"10ms", "100ms", "1s"}, f.Keys())
}

func TestEnumFillFromJSON(t *testing.T) {
	f := NewEnum("cycle", "acquisition cycle",
		EnumOption{Key: "1s", Value: 1000},
		EnumOption{Key: "10s", Value: 10000},
	)

	// values arrive as float64 after a JSON decode round
	require.NoError(t, f.FillFromJSON(float64(10000)))
	assert.Equal(t, "10s", f.Key())

	err := f.FillFromJSON(float64(123))
	var serr *apperrors.StructuralError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "10s", f.Key())
}

package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnknownSchema(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Resolve("nope")
	require.Error(t, err)

	var unknown *UnknownSchemaError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nope", unknown.ID)
}

func TestResolveCachesDefinition(t *testing.T) {
	r := NewRegistry(nil)
	calls := 0
	r.Register("once", func() (*Definition, error) {
		calls++
		return &Definition{
			ID:     "once",
			Fields: []Field{{Name: "title", Type: FieldType{Kind: KindString}}},
		}, nil
	})

	first, err := r.Resolve("once")
	require.NoError(t, err)
	second, err := r.Resolve("once")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestResolveMalformedRegistrations(t *testing.T) {
	tests := []struct {
		name    string
		factory Factory
		wantErr string
	}{
		{
			name:    "factory error",
			factory: func() (*Definition, error) { return nil, fmt.Errorf("boom") },
			wantErr: "construct",
		},
		{
			name:    "nil definition",
			factory: func() (*Definition, error) { return nil, nil },
			wantErr: "nil definition",
		},
		{
			name: "id mismatch",
			factory: func() (*Definition, error) {
				return &Definition{ID: "other", Fields: []Field{{Name: "x", Type: FieldType{Kind: KindString}}}}, nil
			},
			wantErr: "definition with id",
		},
		{
			name: "no fields",
			factory: func() (*Definition, error) {
				return &Definition{ID: "bad"}, nil
			},
			wantErr: "declares no fields",
		},
		{
			name: "array without item type",
			factory: func() (*Definition, error) {
				return &Definition{ID: "bad", Fields: []Field{{Name: "xs", Type: FieldType{Kind: KindArray}}}}, nil
			},
			wantErr: "no item type",
		},
		{
			name: "duplicate field",
			factory: func() (*Definition, error) {
				return &Definition{ID: "bad", Fields: []Field{
					{Name: "x", Type: FieldType{Kind: KindString}},
					{Name: "x", Type: FieldType{Kind: KindString}},
				}}, nil
			},
			wantErr: "twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(nil)
			r.Register("bad", tt.factory)
			_, err := r.Resolve("bad")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuiltinSchemasResolve(t *testing.T) {
	r := Builtin(nil)
	for _, id := range []string{"cv", "invoice", "bank_statement", "utility_bill"} {
		def, err := r.Resolve(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, def.ID)
		assert.NotEmpty(t, def.Fields)
	}
}

func TestRegisterReplacesAndInvalidates(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("s", func() (*Definition, error) {
		return &Definition{ID: "s", Fields: []Field{{Name: "a", Type: FieldType{Kind: KindString}}}}, nil
	})
	def, err := r.Resolve("s")
	require.NoError(t, err)
	require.Len(t, def.Fields, 1)

	r.Register("s", func() (*Definition, error) {
		return &Definition{ID: "s", Fields: []Field{
			{Name: "a", Type: FieldType{Kind: KindString}},
			{Name: "b", Type: FieldType{Kind: KindString}},
		}}, nil
	})
	def, err = r.Resolve("s")
	require.NoError(t, err)
	assert.Len(t, def.Fields, 2)
}

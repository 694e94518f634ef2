package validators

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
)

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=25", nil)
	value, err := ParseQueryInt(r, "limit", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 25, value)

	r = httptest.NewRequest("GET", "/", nil)
	value, err = ParseQueryInt(r, "limit", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, value)

	r = httptest.NewRequest("GET", "/?limit=0", nil)
	_, err = ParseQueryInt(r, "limit", 20, 1, 100)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	r = httptest.NewRequest("GET", "/?limit=abc", nil)
	_, err = ParseQueryInt(r, "limit", 20, 1, 100)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestParseQueryUUIDs(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	r := httptest.NewRequest("GET", "/?features="+a.String()+","+b.String(), nil)
	ids, err := ParseQueryUUIDs(r, "features")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	r = httptest.NewRequest("GET", "/", nil)
	ids, err = ParseQueryUUIDs(r, "features")
	require.NoError(t, err)
	assert.Nil(t, ids)

	r = httptest.NewRequest("GET", "/?features="+a.String()+",nope", nil)
	_, err = ParseQueryUUIDs(r, "features")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestParseQueryUUIDsCollapsesDuplicates(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	r := httptest.NewRequest("GET", "/?features="+a.String()+","+b.String()+","+a.String(), nil)
	ids, err := ParseQueryUUIDs(r, "features")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)
}

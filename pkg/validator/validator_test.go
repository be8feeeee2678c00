package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listQuery struct {
	Page    int    `validate:"gte=1"`
	PerPage int    `validate:"gte=1,lte=100"`
	Slug    string `validate:"omitempty,slug,max=200"`
	Backend string `validate:"oneof=memory redis none"`
	BaseURL string `validate:"required,http_url"`
}

func validQuery() listQuery {
	return listQuery{Page: 1, PerPage: 24, Slug: "zapato-bogota", Backend: "memory", BaseURL: "https://example.com"}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(validQuery()))
}

func TestValidate_FieldMessages(t *testing.T) {
	q := validQuery()
	q.Page = 0
	q.PerPage = 500
	q.Backend = "disk"
	q.BaseURL = ""

	err := Validate(q)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Equal(t, "must be greater than or equal to 1", fields["Page"])
	assert.Equal(t, "must be less than or equal to 100", fields["PerPage"])
	assert.Equal(t, "must be one of: memory redis none", fields["Backend"])
	assert.Equal(t, "is required", fields["BaseURL"])
	assert.Contains(t, err.Error(), "field 'Page'")
}

func TestValidate_Slug(t *testing.T) {
	for _, bad := range []string{"zapato bogota", "a/b", "x?y", "tab\there"} {
		q := validQuery()
		q.Slug = bad
		err := Validate(q)
		require.Error(t, err, bad)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "must be a valid slug", valErr.Fields()["Slug"])
	}

	for _, good := range []string{"zapato-bogota", "bota_cafe", "tenis%c3%b1"} {
		q := validQuery()
		q.Slug = good
		assert.NoError(t, Validate(q), good)
	}
}

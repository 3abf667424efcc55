package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderForm struct {
	CustomerName  string `json:"name" validate:"required,max=200"`
	CustomerEmail string `json:"email" validate:"required,contains=@"`
	Quantity      int    `json:"quantity" validate:"gte=1,lte=100"`
	Status        string `json:"status" validate:"omitempty,oneof=PENDENTE PROCESSANDO ENVIADO CANCELADO"`
	PhotoURL      string `json:"photo_url" validate:"omitempty,url"`
}

func validForm() orderForm {
	return orderForm{
		CustomerName:  "Maria Silva",
		CustomerEmail: "maria@example.com",
		Quantity:      2,
	}
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(validForm()))
}

func TestValidate_RequiredField(t *testing.T) {
	form := validForm()
	form.CustomerName = ""

	err := Validate(form)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	fields := vErr.Fields()
	assert.Contains(t, fields, "CustomerName")
	assert.Equal(t, "is required", fields["CustomerName"])
}

func TestValidate_ContainsTag(t *testing.T) {
	form := validForm()
	form.CustomerEmail = "no-at-sign"

	err := Validate(form)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields()["CustomerEmail"], `"@"`)
}

func TestValidate_RangeTags(t *testing.T) {
	form := validForm()
	form.Quantity = 500

	err := Validate(form)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields()["Quantity"], "less than or equal to 100")
}

func TestValidate_OneOfTag(t *testing.T) {
	form := validForm()
	form.Status = "SHIPPED"

	err := Validate(form)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields()["Status"], "must be one of")
}

func TestValidate_URLTag(t *testing.T) {
	form := validForm()
	form.PhotoURL = "not-a-url"

	err := Validate(form)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "must be a valid URL", vErr.Fields()["PhotoURL"])
}

func TestValidationError_MessageListsAllFields(t *testing.T) {
	err := Validate(orderForm{Quantity: 0})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "CustomerName")
	assert.Contains(t, msg, "CustomerEmail")
	assert.Contains(t, msg, "Quantity")
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"name":"Maria Silva","email":"maria@example.com","quantity":1}`
	req := httptest.NewRequest("POST", "/pedidos", strings.NewReader(body))

	var form orderForm
	assert.NoError(t, DecodeAndValidate(req, &form))
	assert.Equal(t, "Maria Silva", form.CustomerName)
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/pedidos", strings.NewReader(`{broken`))

	var form orderForm
	err := DecodeAndValidate(req, &form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_InvalidPayload(t *testing.T) {
	body := `{"name":"Maria Silva","quantity":1}`
	req := httptest.NewRequest("POST", "/pedidos", strings.NewReader(body))

	var form orderForm
	err := DecodeAndValidate(req, &form)
	require.Error(t, err)

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

package mpesa_test

import (
	"testing"

	"samaka/internal/domain/model"
	"samaka/internal/mpesa"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// サンドボックスが実際に返す形そのままのペイロード
const successPayload = `{
	"Body": {
		"stkCallback": {
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": 0,
			"ResultDesc": "The service request is processed successfully.",
			"CallbackMetadata": {
				"Item": [
					{"Name": "Amount", "Value": 1000.00},
					{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
					{"Name": "TransactionDate", "Value": 20191219102115},
					{"Name": "PhoneNumber", "Value": 254708374149}
				]
			}
		}
	}
}`

const failurePayload = `{
	"Body": {
		"stkCallback": {
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": 1032,
			"ResultDesc": "Request cancelled by user."
		}
	}
}`

func TestParseCallback_Success(t *testing.T) {
	cb, err := mpesa.ParseCallback([]byte(successPayload))

	assert.NoError(t, err)
	assert.Equal(t, "ws_CO_191220191020363925", cb.CheckoutRequestID)
	assert.Equal(t, 0, cb.ResultCode)
	assert.Equal(t, "NLJ7RT61SV", cb.MpesaReceiptNumber)
	assert.Equal(t, "254708374149", cb.PhoneNumber)
	if assert.NotNil(t, cb.Amount) {
		assert.True(t, cb.Amount.Equal(decimal.NewFromInt(1000)))
	}
}

func TestParseCallback_Failure_NoMetadata(t *testing.T) {
	cb, err := mpesa.ParseCallback([]byte(failurePayload))

	assert.NoError(t, err)
	assert.Equal(t, 1032, cb.ResultCode)
	assert.Nil(t, cb.Amount)
	assert.Empty(t, cb.MpesaReceiptNumber)
}

// 一部実装系はResultCodeを文字列で送ってくる
func TestParseCallback_StringResultCode(t *testing.T) {
	body := `{"Body":{"stkCallback":{"CheckoutRequestID":"co-1","ResultCode":"0","ResultDesc":"ok"}}}`

	cb, err := mpesa.ParseCallback([]byte(body))

	assert.NoError(t, err)
	assert.Equal(t, 0, cb.ResultCode)
}

// 読めないResultCodeは-1に倒す。0（成功）と誤読してはいけない。
func TestParseCallback_GarbageResultCode(t *testing.T) {
	body := `{"Body":{"stkCallback":{"CheckoutRequestID":"co-1","ResultCode":"12abc"}}}`

	cb, err := mpesa.ParseCallback([]byte(body))

	assert.NoError(t, err)
	assert.Equal(t, model.ResultCodeUnknown, cb.ResultCode)
}

func TestParseCallback_StringPhoneNumber(t *testing.T) {
	body := `{
		"Body": {"stkCallback": {
			"CheckoutRequestID": "co-1",
			"ResultCode": 0,
			"CallbackMetadata": {"Item": [{"Name": "PhoneNumber", "Value": "254708374149"}]}
		}}
	}`

	cb, err := mpesa.ParseCallback([]byte(body))

	assert.NoError(t, err)
	assert.Equal(t, "254708374149", cb.PhoneNumber)
}

func TestParseCallback_MissingCheckoutRequestID(t *testing.T) {
	body := `{"Body":{"stkCallback":{"ResultCode":0}}}`

	_, err := mpesa.ParseCallback([]byte(body))
	assert.Error(t, err)
}

func TestParseCallback_MalformedJSON(t *testing.T) {
	_, err := mpesa.ParseCallback([]byte("<html>not json</html>"))
	assert.Error(t, err)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0712345678", want: "254712345678"},
		{in: "0112345678", want: "254112345678"},
		{in: "712345678", want: "254712345678"},
		{in: "112345678", want: "254112345678"},
		{in: "254712345678", want: "254712345678"},
		{in: "+254712345678", want: "254712345678"},
		{in: "0712 345 678", want: "254712345678"},
		{in: "0712-345-678", want: "254712345678"},
		{in: "", wantErr: true},
		{in: "12345", wantErr: true},
		{in: "notaphone", wantErr: true},
		{in: "0812345678", wantErr: true},
	}

	for _, tt := range tests {
		got, err := mpesa.NormalizePhone(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		assert.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

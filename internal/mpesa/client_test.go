package mpesa_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"samaka/internal/config"
	"samaka/internal/domain/model"
	"samaka/internal/mpesa"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stkCapture struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
}

// Darajaのサンドボックスを模したサーバーを立てる
func newDarajaStub(t *testing.T, tokenCalls *int32, lastPush *stkCapture) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			atomic.AddInt32(tokenCalls, 1)
			assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("key:secret")),
				r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "expires_in": "3599"})

		case "/mpesa/stkpush/v1/processrequest":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(lastPush))
			json.NewEncoder(w).Encode(mpesa.StkPushResponse{
				MerchantRequestID: "mr-1",
				CheckoutRequestID: "co-1",
				ResponseCode:      "0",
			})

		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func testClient(baseURL string) *mpesa.Client {
	return mpesa.NewClient(config.Mpesa{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		Shortcode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://samaka.example.com/mpesa/callback",
		BaseURL:        baseURL,
	})
}

func TestStkPush_SendsTruncatedAmountAndPassword(t *testing.T) {
	var tokenCalls int32
	var captured stkCapture
	srv := newDarajaStub(t, &tokenCalls, &captured)
	defer srv.Close()

	c := testClient(srv.URL)
	resp, err := c.StkPush(context.Background(), mpesa.StkPushRequest{
		Amount:           decimal.RequireFromString("980.50"),
		PhoneNumber:      "0712345678",
		AccountReference: "ORD-1-11",
		TransactionDesc:  "Tilapia 2kg",
		PaymentType:      model.MpesaPaymentSTKPush,
	})

	require.NoError(t, err)
	assert.Equal(t, "co-1", resp.CheckoutRequestID)

	//金額はKES整数に切り捨て
	assert.Equal(t, int64(980), captured.Amount)
	assert.Equal(t, "254712345678", captured.PartyA)
	assert.Equal(t, "254712345678", captured.PhoneNumber)
	assert.Equal(t, "174379", captured.BusinessShortCode)
	assert.Equal(t, "174379", captured.PartyB)
	assert.Equal(t, "CustomerPayBillOnline", captured.TransactionType)
	assert.Equal(t, "https://samaka.example.com/mpesa/callback", captured.CallBackURL)
	assert.Equal(t, "ORD-1-11", captured.AccountReference)

	//password = base64(shortcode + passkey + timestamp)
	want := base64.StdEncoding.EncodeToString([]byte("174379" + "passkey" + captured.Timestamp))
	assert.Equal(t, want, captured.Password)
}

func TestStkPush_TillSellerBecomesBuyGoods(t *testing.T) {
	var tokenCalls int32
	var captured stkCapture
	srv := newDarajaStub(t, &tokenCalls, &captured)
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.StkPush(context.Background(), mpesa.StkPushRequest{
		Amount:            decimal.RequireFromString("600.00"),
		PhoneNumber:       "254712345678",
		AccountReference:  "ORD-1-12",
		PaymentType:       model.MpesaPaymentTill,
		ShortcodeOverride: "832909",
	})

	require.NoError(t, err)
	assert.Equal(t, "CustomerBuyGoodsOnline", captured.TransactionType)
	//入金先は漁師のTill、BusinessShortCodeはプラットフォームのまま
	assert.Equal(t, "832909", captured.PartyB)
	assert.Equal(t, "174379", captured.BusinessShortCode)
}

func TestStkPush_TokenIsCached(t *testing.T) {
	var tokenCalls int32
	var captured stkCapture
	srv := newDarajaStub(t, &tokenCalls, &captured)
	defer srv.Close()

	c := testClient(srv.URL)
	for i := 0; i < 3; i++ {
		_, err := c.StkPush(context.Background(), mpesa.StkPushRequest{
			Amount:      decimal.NewFromInt(100),
			PhoneNumber: "0712345678",
		})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))
}

func TestStkPush_NonZeroResponseCodeIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
		case "/mpesa/stkpush/v1/processrequest":
			json.NewEncoder(w).Encode(mpesa.StkPushResponse{
				ResponseCode:        "1",
				ResponseDescription: "insufficient float",
			})
		}
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.StkPush(context.Background(), mpesa.StkPushRequest{
		Amount:      decimal.NewFromInt(100),
		PhoneNumber: "0712345678",
	})

	assert.ErrorContains(t, err, "insufficient float")
}

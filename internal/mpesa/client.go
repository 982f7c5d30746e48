package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"samaka/internal/config"
	"samaka/internal/domain/model"

	"github.com/shopspring/decimal"
)

// StkPushRequest は1回のSTKプッシュ発行に必要な情報。
type StkPushRequest struct {
	Amount           decimal.Decimal
	PhoneNumber      string
	AccountReference string
	TransactionDesc  string

	// 入金先の決済タイプ。TILLだけBuyGoodsになる。
	PaymentType model.MpesaPaymentType

	// 漁師のTill/Paybill番号。空ならプラットフォームのshortcodeへ。
	ShortcodeOverride string
}

type StkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type StkQueryResponse struct {
	ResponseCode      string `json:"ResponseCode"`
	ResultCode        string `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

// Client はDaraja APIのHTTPクライアント。
// アクセストークンは50分キャッシュする（実際の有効期限は1時間）。
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
	shortcode      string
	passkey        string
	callbackURL    string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewClient(cfg config.Mpesa) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		shortcode:      cfg.Shortcode,
		passkey:        cfg.Passkey,
		callbackURL:    cfg.CallbackURL,
	}
}

func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	auth := base64.StdEncoding.EncodeToString(
		[]byte(c.consumerKey + ":" + c.consumerSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("mpesa token error %d: %s", resp.StatusCode, string(b))
	}

	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if res.AccessToken == "" {
		return "", fmt.Errorf("mpesa token response had no access_token")
	}

	c.accessToken = res.AccessToken
	c.tokenExpiry = time.Now().Add(50 * time.Minute)
	return c.accessToken, nil
}

// StkPush はSTKプッシュを発行する。
// 金額はKES整数に切り捨てて送る（Darajaは小数を受け付けない）。
func (c *Client) StkPush(ctx context.Context, r StkPushRequest) (StkPushResponse, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return StkPushResponse{}, fmt.Errorf("get mpesa access token: %w", err)
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(c.shortcode + c.passkey + timestamp),
	)

	phone, err := NormalizePhone(r.PhoneNumber)
	if err != nil {
		return StkPushResponse{}, err
	}

	partyB := c.shortcode
	if r.ShortcodeOverride != "" {
		partyB = r.ShortcodeOverride
	}

	transactionType := "CustomerPayBillOnline"
	if r.PaymentType == model.MpesaPaymentTill {
		transactionType = "CustomerBuyGoodsOnline"
	}

	payload := map[string]interface{}{
		"BusinessShortCode": c.shortcode,
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   transactionType,
		"Amount":            r.Amount.IntPart(),
		"PartyA":            phone,
		"PartyB":            partyB,
		"PhoneNumber":       phone,
		"CallBackURL":       c.callbackURL,
		"AccountReference":  r.AccountReference,
		"TransactionDesc":   r.TransactionDesc,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return StkPushResponse{}, fmt.Errorf("marshal stk payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewBuffer(body))
	if err != nil {
		return StkPushResponse{}, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StkPushResponse{}, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return StkPushResponse{}, fmt.Errorf("mpesa stk error %d: %s", resp.StatusCode, string(b))
	}

	var result StkPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return StkPushResponse{}, fmt.Errorf("decode stk response: %w", err)
	}

	if result.ResponseCode != "0" {
		return StkPushResponse{}, fmt.Errorf("mpesa stk rejected: %s", result.ResponseDescription)
	}

	return result, nil
}

// QueryStkStatus はコールバックが届かないときの補助照会。
func (c *Client) QueryStkStatus(ctx context.Context, checkoutRequestID string) (StkQueryResponse, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return StkQueryResponse{}, fmt.Errorf("get mpesa access token: %w", err)
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(c.shortcode + c.passkey + timestamp),
	)

	payload := map[string]interface{}{
		"BusinessShortCode": c.shortcode,
		"Password":          password,
		"Timestamp":         timestamp,
		"CheckoutRequestID": checkoutRequestID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return StkQueryResponse{}, fmt.Errorf("marshal query payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/mpesa/stkpushquery/v1/query", bytes.NewBuffer(body))
	if err != nil {
		return StkQueryResponse{}, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StkQueryResponse{}, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return StkQueryResponse{}, fmt.Errorf("mpesa query error %d: %s", resp.StatusCode, string(b))
	}

	var result StkQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return StkQueryResponse{}, fmt.Errorf("decode query response: %w", err)
	}
	return result, nil
}

// NormalizePhone はケニアの携帯番号を254形式へそろえる。
// 受け付けるのは 07XXXXXXXX / 01XXXXXXXX / 2547XXXXXXXX / +2547XXXXXXXX。
func NormalizePhone(raw string) (string, error) {
	p := strings.TrimSpace(raw)
	p = strings.TrimPrefix(p, "+")
	p = strings.ReplaceAll(p, " ", "")
	p = strings.ReplaceAll(p, "-", "")

	switch {
	case len(p) == 12 && strings.HasPrefix(p, "254"):
		// そのまま
	case len(p) == 10 && (strings.HasPrefix(p, "07") || strings.HasPrefix(p, "01")):
		p = "254" + p[1:]
	case len(p) == 9 && (strings.HasPrefix(p, "7") || strings.HasPrefix(p, "1")):
		p = "254" + p
	default:
		return "", fmt.Errorf("invalid phone number: %q", raw)
	}

	for _, c := range p {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("invalid phone number: %q", raw)
		}
	}
	return p, nil
}

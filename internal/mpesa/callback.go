package mpesa

import (
	"encoding/json"
	"fmt"
	"strconv"

	"samaka/internal/domain/model"

	"github.com/shopspring/decimal"
)

// Darajaのコールバックのワイヤ形式。
// Body.stkCallback.CallbackMetadata.Item の入れ子をそのまま写している。
type callbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string          `json:"MerchantRequestID"`
			CheckoutRequestID string          `json:"CheckoutRequestID"`
			ResultCode        json.RawMessage `json:"ResultCode"`
			ResultDesc        string          `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []callbackItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type callbackItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value"`
}

// CallbackResult はパース・正規化済みのコールバック。
type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string

	// パース不能だった場合はResultCodeUnknown（失敗扱い）。
	ResultCode int
	ResultDesc string

	// メタデータに金額が無ければnil。
	Amount             *decimal.Decimal
	MpesaReceiptNumber string
	PhoneNumber        string
}

// ParseCallback は生のコールバックボディをパースする。
// ResultCodeが整数に読めないペイロードはエラーにせず、-1に正規化して返す。
// 成功（0）と誤読するくらいなら失敗に倒す。
func ParseCallback(body []byte) (CallbackResult, error) {
	var env callbackEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return CallbackResult{}, fmt.Errorf("unmarshal callback: %w", err)
	}

	cb := env.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return CallbackResult{}, fmt.Errorf("callback missing CheckoutRequestID")
	}

	result := CallbackResult{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        parseResultCode(cb.ResultCode),
		ResultDesc:        cb.ResultDesc,
	}

	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			var d decimal.Decimal
			if err := json.Unmarshal(item.Value, &d); err == nil {
				result.Amount = &d
			}
		case "MpesaReceiptNumber":
			var s string
			if err := json.Unmarshal(item.Value, &s); err == nil {
				result.MpesaReceiptNumber = s
			}
		case "PhoneNumber":
			// 数値でも文字列でも来る
			var n json.Number
			if err := json.Unmarshal(item.Value, &n); err == nil {
				result.PhoneNumber = n.String()
			} else {
				var s string
				if err := json.Unmarshal(item.Value, &s); err == nil {
					result.PhoneNumber = s
				}
			}
		}
	}

	return result, nil
}

// ResultCodeは数値のはずだが、文字列で届く実装系もある。
func parseResultCode(raw json.RawMessage) int {
	if len(raw) == 0 {
		return model.ResultCodeUnknown
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n2, serr := strconv.Atoi(s); serr == nil {
			return n2
		}
	}

	return model.ResultCodeUnknown
}

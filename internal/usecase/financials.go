package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Financials は1件の決済の金額内訳。
type Financials struct {
	Gross decimal.Decimal
	Fee   decimal.Decimal
	Net   decimal.Decimal
}

// ComputeFinancials は手数料と手取りを計算する。
// fee = gross * rate / 100 を2桁に丸め、net = gross - fee。
// netは丸め済みfeeから導くので、常に gross = fee + net が成り立つ。
func ComputeFinancials(gross decimal.Decimal, feeRatePercent decimal.Decimal) Financials {
	fee := gross.Mul(feeRatePercent).Div(decimal.NewFromInt(100)).Round(2)
	net := gross.Sub(fee)
	return Financials{
		Gross: gross,
		Fee:   fee,
		Net:   net,
	}
}

// LineTotal は明細の総額（重量 × kg単価）を2桁で返す。
func LineTotal(weightKg decimal.Decimal, pricePerKg decimal.Decimal) decimal.Decimal {
	return weightKg.Mul(pricePerKg).Round(2)
}

// ParseFeeRate は設定のパーセント文字列をパースする。負は弾く。
func ParseFeeRate(raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid fee rate %q: %w", raw, err)
	}
	if rate.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("fee rate must not be negative: %s", rate)
	}
	return rate, nil
}
